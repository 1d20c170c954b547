// Package docsync keeps a tree of Markdown documents in step with the table
// of contents of a root document.
//
// A pass parses the TOC, then visits every topic parents first: it creates
// the topic's directory, relocates the document when the caption changed,
// scaffolds missing documents and refreshes the header, breadcrumb, sub-topic
// and code regions. The root document's TOC lines are rewritten to link form
// last. Nothing is rolled back on failure; passes are idempotent, so the fix
// is to correct the condition and run again.
package docsync
