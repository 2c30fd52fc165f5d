// Package export reads and writes the rating CSV kept next to a catalog.
//
// The file is image_selections.csv in the catalog root with the columns
// filename, path, liked, rejected and score. Writes go to a temporary file
// in the same directory which is then renamed over the target, so a crash
// never leaves a truncated selection file behind.
package export
