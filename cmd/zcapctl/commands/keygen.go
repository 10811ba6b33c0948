package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/zcap/didkey"
	"github.com/teranos/zcap/errors"
	"github.com/teranos/zcap/logger"
)

// KeygenCmd generates a fresh did:key identity and stores it locally.
var KeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new did:key identity",
	Long: `keygen — generate an Ed25519 keypair and its did:key identifier.

The private key is saved to the local store so later commands can use the
identity as a controller or invoker. This is a convenience for exercising
the library end to end; it is not a key-management tool.`,
	RunE: runKeygen,
}

func runKeygen(cmd *cobra.Command, args []string) error {
	path, err := resolveStorePath()
	if err != nil {
		return err
	}
	state, err := loadDemoState(path)
	if err != nil {
		return err
	}

	id, err := didkey.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate identity")
	}
	state.putIdentity(id.DID, id.PublicKey, id.PrivateKey)

	if err := state.save(path); err != nil {
		return err
	}

	logger.Infow("generated identity", logger.FieldControllerID, id.DID)
	fmt.Println(id.DID)
	return nil
}
