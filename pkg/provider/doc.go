/*
Package provider materializes a project template into a fresh directory.

	            +-------------+
	            |    Fetch    |
	            |  (Detect)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  GitHub   |           |  Local  |
	|  tarball  |           |  copy   |
	+-----------+           +---------+

🎯 Purpose:
- Resolve a template source (owner/name@ref or a directory) to a provider
- Write the template tree into a directory that did not exist before
- Leave nothing behind when the fetch fails

🔄 Flow:
1. Detect picks "local" for file:// paths and existing directories, "github" otherwise
2. Get builds the provider from its registered Factory
3. The provider writes the tree into dest
4. On error dest is removed and the error is marked with ErrFetchFailed

⚡ Providers:
- github: resolves the tarball link through the GitHub API, downloads it and
  extracts it with ExtractTarball, stripping the archive's top directory
- local: copies a directory tree, leaving out .git

Providers register themselves from init, so callers blank-import the ones they want:

	import (
		_ "github.com/walteh/create-springboot/pkg/provider/github"
		_ "github.com/walteh/create-springboot/pkg/provider/local"
	)
*/
package provider
