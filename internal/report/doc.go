// Package report writes a finished model.Report in the supported output
// formats:
//   - SimpleWriter: plain text for terminals and logs
//   - JSONWriter and FullJSONWriter: structured output for other tools
//   - MarkdownWriter: a document with tables, mermaid pies and chart links
//   - HTMLWriter: a self-contained page with interactive echarts charts
//   - TerminalWriter: the Markdown document styled for the terminal
//
// Writers implement the Writer interface and can be combined with
// MultiWriter. None of them changes the report.
package report
