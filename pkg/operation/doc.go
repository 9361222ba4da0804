/*
Package operation turns a fetched template tree into a personalised project.

	+-------------+
	|  Runner     |
	| (steps 1-7) |
	+------+------+
	       |
	+------+------+
	| Transformer |
	|  (in place) |
	+------+------+

🎯 Purpose:
- Runs the fixed sequence of steps that rename the bootguard template
- Reports every change through the console logger in the context
- Returns a Summary of what changed, even when a step fails

🔄 Flow:
1. derive identifiers from the project name and package base
2. apply profile: copy the profile config over the target and force the active key
3. replace tokens across every text file, one pass per token
4. relocate the main and test packages to com/<base>/<name>
5. purge the old owner directory unless the new package lives inside it
6. replace qualified names (package, groupId)
7. rename the entry point classes and the files that reference them

⚡ Behaviour:
- Steps run sequentially over the live tree; each walk sees the previous step's writes
- A failure stops the run; the tree is left partially transformed and the
  failing step is named in the error
- Missing optional inputs (profile file, package directories) are logged and skipped
*/
package operation
