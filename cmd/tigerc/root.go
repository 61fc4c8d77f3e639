// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "tigerc",
		Short:         "tigerc compiles a typed-AST JSON fixture to x86-64 assembly",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace pass-by-pass diagnostics to stderr")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setVerbose(verbose)
	}

	root.AddCommand(newCompileCmd())
	root.AddCommand(newCheckCmd())
	return root
}
