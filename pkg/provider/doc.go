/*
Package provider defines where scopegrep's inputs come from.

	            +-------------+
	            |  Provider   |
	            |  (Inputs)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Stdin   |           |   FS    |
	| (stream)  |           | (afero) |
	+-----------+           +---------+

🎯 Purpose:
- Lists input units and opens them on demand
- Discovers files by glob or by language (extension, then shebang)
- Tells the runner whether results are written back

🔄 Flow:
1. The CLI picks "stdin" or "fs" and builds it through the registry
2. ListUnits returns units in lexical discovery order
3. The runner reads each unit with ReadUnit

📝 Discovery skips hidden files and directories, and every language
skips its own build and dependency directories (vendor, target,
node_modules, .terraform). A glob is taken at its word and may name
hidden paths.

🔍 Example:

	p, err := provider.Get(ctx, "fs", provider.Args{
		Fs:        afero.NewOsFs(),
		Languages: []*langs.Language{python},
	})

	units, err := p.ListUnits(ctx)
	content, err := provider.ReadUnit(ctx, p, units[0])
*/
package provider
