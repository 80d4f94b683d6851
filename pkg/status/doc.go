/*
Package status writes results back and tracks what happened to each input.

	            +-------------+
	            |   Manager   |
	            |  (Outcomes) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Formats |
	|  (afero)  |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Reads inputs and writes modified files atomically
- Tracks the outcome of every input (modified, matched, skipped, ...)
- Formats outcomes and progress for humans

🔄 Flow:
1. The runner hands over each processed input
2. Modified files are written through a temp file and a rename
3. Outcomes are tracked and logged through the formatter
4. Counts feed the final summary

🤝 Interfaces:
- FileManager: reading and atomic writing
- StatusReporter: outcomes and progress
- FileFormatter: presentation of outcomes

📝 All file access goes through an afero.Fs, so tests run on a memory
filesystem and dry runs can swap in a read-only one.

🚧 Current Issues & TODOs:
1. Progress Reporting:
  - Live progress bar for very large trees

🔍 Example:

	mgr := status.New(afero.NewOsFs(), logger)

	if err := mgr.WriteFileAtomic(ctx, path, output); err != nil {
		return err
	}
	mgr.TrackFile(ctx, status.FileInfo{Path: path, Status: status.StatusModified})
*/
package status
