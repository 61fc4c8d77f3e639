// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "github.com/spf13/cobra"

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <fixture.json>",
		Short: "run the full pipeline and report success or failure without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadAndCompile(args[0]); err != nil {
				return err
			}
			cmd.Println("ok")
			return nil
		},
	}
}
