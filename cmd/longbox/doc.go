// Command longbox is the interactive comic metadata importer CLI.
package main
