// SPDX-License-Identifier: MPL-2.0

// Package manifest extracts the metadata block embedded in an addon manifest.
//
// A manifest is source code for the host application's scripting language, not a
// data file. Somewhere in it sits one literal assignment of the form
//
//	bl_info = { "name": "Node Wrangler", "version": (3, 54), "category": "Node" }
//
// Extraction is pattern based and tolerant: the first block is located with a
// non-greedy match that does not track brace depth, then `"key": value` pairs are
// pulled out of it one by one. Values are double-quoted strings, parenthesized
// tuples, or bare tokens. Tuples are tokenized, never evaluated.
package manifest
