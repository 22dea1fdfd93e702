// Package style defines the category-keyed style table handed to rendering
// engines.
//
// A [Table] is declarative: a default edge style, a default node style, and an
// ordered list of per-category [Override] records (gradient and size). Engines
// consume it either as cytoscape rules via [Table.Rules] or as resolved
// per-category values via [Table.Resolve].
//
// # Default Table
//
//	category              size  gradient
//	(default node)          65  #d7dfe9 #bdc9db #97a1af
//	run-task                65  #6e58d1 #4a2ec6 #3b259e
//	sync-project            80  #ffafff #ff79ff #cc61cc
//	install-dependencies    80  #afe6f2 #79d5e9 #61aaba
//	setup-environment       90  #c9e166 #b7d733 #a5cd00
//	setup-toolchain        100  #ff9da6 #ff5b6b #cc4956
//	setup-proto            110  #ffafff #ff79ff #cc61cc
//	sync-workspace         120  #b7a9f9 #9a87f7 #8c75f5
//
// Nodes in the unknown category keep the default node style.
//
// # Themes
//
// A TOML [Theme] can be laid over any table with [Theme.Apply]:
//
//	th, err := style.LoadTheme("theme.toml")
//	if err != nil {
//	    return err
//	}
//	table := th.Apply(style.Default())
package style
