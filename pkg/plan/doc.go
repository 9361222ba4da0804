/*
Package plan loads the rename plan that turns a template into a project.

	+-----------+     +-----------+     +-----------+
	|   HCL     |     |   YAML    |     |   JSON    |
	|  Parser   |     |  Parser   |     |  Parser   |
	+-----+-----+     +-----+-----+     +-----+-----+
	      |                 |                 |
	      +--------+--------+--------+--------+
	               |
	         +-----+-----+
	         |   Plan    |
	         +-----------+

🎯 Purpose:
- Replaces template-specific literals with a declarative, ordered list
- Resolves ${project}, ${name}, ${package_base}, ${class_name} and ${profile}
- Ships the bootguard plan embedded in the binary

🔄 Order:
Tokens run before relocation, qualified rules after it, entry points last.
Within each list, declaration order is execution order.
*/
package plan
