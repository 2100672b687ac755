// Package commands implements the childsupport command line: one-shot
// estimates with "calc" and a dump of the reference schedule with "table".
package commands
