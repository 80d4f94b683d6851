/*
Package operation turns inputs into results: it builds scoped views, runs
the action pipeline and drives whole runs.

	+-------------+
	|   Runner    |
	| (Parallel)  |
	+------+------+
	       |
	+------+------+
	|   Engine    |
	|  (Per Unit) |
	+------+------+
	       |
	+------+------+
	|    View     |
	| (Scope/Map) |
	+-------------+

🎯 Purpose:
- Compiles a config into a Plan once, shared read-only by all workers
- Applies language queries and the regex or literal scope to each unit
- Renders output, or a line report when no action was asked for
- Applies fail policies (any, none, no files)

🔄 Flow per unit:
1. Pick the language (extension, then shebang; stdin uses the first one)
2. BuildView intersects (or, when joined, unions) the language queries and
   intersects the regex
3. Nothing in scope: the input is returned untouched
4. No actions: SearchReport lists the in-scope lines
5. Otherwise Render squeezes and maps every action in order

⚡ Runs:
- Units are processed by a bounded errgroup, one worker per thread
- Sorted runs go one by one in path order for reproducible output
- Results are written, tracked and sunk one at a time
- Per-unit failures never stop other units; all errors are combined

🤝 Interfaces:
- provider.Provider: where units come from
- status.FileManager: writing modified files back
- status.StatusReporter: tracking outcomes
- Sink: printing results

🔍 Example:

	engine, err := operation.NewEngine(ctx, cfg, fs)
	runner := operation.NewRunner(engine, p, mgr, mgr, sink, operation.RunOptions{
		Threads: cfg.Threads,
		Sorted:  cfg.Sorted,
	})
	summary, err := runner.Run(ctx)
*/
package operation
