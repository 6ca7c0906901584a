// Command ledger is the command line front end of the bank account ledger.
package main

import (
	"os"

	"go-bank-ledger/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
