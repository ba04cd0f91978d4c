// Command vaultx is the CLI front end for the VaultX secrets manager: a
// thin cobra-based dispatcher over the library packages (vaultcrypto,
// ttl, vault, sshkey, vaultstorage, session, audit) that do the actual
// work.
package main

import (
	"context"
	"log"
	"os"

	"github.com/skdas20/vaultx/cli"
	"github.com/skdas20/vaultx/genericclioptions"
)

func main() {
	iostreams := genericclioptions.NewDefaultIOStreams()

	cmd := cli.NewDefaultVaultXCommand(iostreams, os.Args[1:])

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("vaultx: %v", err)
	}
}
