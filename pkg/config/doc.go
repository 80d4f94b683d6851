/*
Package config describes a scopegrep run and loads it from a file.

	            +-------------+
	            |   Config    |
	            |   (a run)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Holds every knob of a run: scopes, actions, inputs and fail policies
- Loads runs saved as YAML, HCL or JSON
- Validates before any input is read

🔄 Flow:
1. Load picks a parser by file extension
2. The parser decodes strictly, unknown fields are errors
3. Validate resolves language aliases and fills in defaults

📝 HCL files can reference the environment and a few string functions:

	scope       = "TODO"
	replacement = format("TODO(%s)", env.USER)

	language "python" {
	  queries = ["comments"]
	}

	actions {
	  upper = true
	}

🤝 Flags given on the command line win over values from a file; that merge
happens in the CLI.
*/
package config
