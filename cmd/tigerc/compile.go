// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "compile <fixture.json>",
		Short: "compile a typed-AST JSON fixture to an AT&T-syntax .s file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, err := loadAndCompile(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write([]byte(asm))
				return err
			}
			return os.WriteFile(out, []byte(asm), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write assembly to this path instead of stdout")
	return cmd
}
