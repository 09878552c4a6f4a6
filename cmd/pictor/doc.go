// Command pictor is the interactive CLI for the photo catalog: it ingests
// import trees, runs the tagging worker, reviews pending tags, and prints
// catalog statistics.
package main
