package main

import "github.com/ethpandaops/receipt-importer/cmd"

func main() {
	cmd.Execute()
}
