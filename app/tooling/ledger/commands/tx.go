package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/blockseal/foundation/blockchain/database"
	"github.com/ardanlabs/blockseal/foundation/blockchain/worker"
	"github.com/ardanlabs/blockseal/foundation/nameservice"
	"github.com/ardanlabs/blockseal/foundation/network"
	"github.com/ardanlabs/blockseal/foundation/validate"
)

type newTxRequest struct {
	KeyPath string `json:"key_path" validate:"required"`
	Account string `json:"account" validate:"required"`
	To      string `json:"to" validate:"required"`
}

// newTx constructs a transaction signed by the account and writes it as
// json.
func newTx(args Args, w io.Writer) error {
	req := newTxRequest{
		KeyPath: args.KeyPath,
		Account: args.Account,
		To:      args.To,
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	privateKey, err := loadPrivateKey(req.KeyPath, req.Account)
	if err != nil {
		return err
	}

	receiver, err := loadPublicKey(req.KeyPath, req.To)
	if err != nil {
		return err
	}

	tx, err := database.NewTx(&privateKey.PublicKey, privateKey, receiver, args.Amount, args.UID)
	if err != nil {
		return fmt.Errorf("constructing tx: %w", err)
	}

	args.EvHandler("commands: tx: from[%s] to[%s] amount[%v] uid[%d]", req.Account, req.To, tx.Amount, tx.UID)

	return output(args.Out, w, tx)
}

// =============================================================================

type txFilesRequest struct {
	TxFiles []string `json:"tx_files" validate:"required,min=1,dive,required"`
}

// verifyTx reports whether the transactions in the files carry a valid
// signature.
func verifyTx(args Args, w io.Writer) error {
	req := txFilesRequest{
		TxFiles: args.TxFiles,
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	trans, err := readTrans(req.TxFiles)
	if err != nil {
		return err
	}

	// Accounts in the key folder are shown by name, others by address.
	// A missing key folder is not an error for verification.
	ns, err := nameservice.New(args.KeyPath)
	if err != nil {
		args.EvHandler("commands: txverify: names unavailable: %s", err)
		ns = &nameservice.NameService{}
	}

	for i, tx := range trans {
		fmt.Fprintf(w, "%s %s->%s %v %d %v\n", req.TxFiles[i], ns.Lookup(tx.Sender), ns.Lookup(tx.Receiver), tx.Amount, tx.UID, tx.Verify())
	}

	return nil
}

// =============================================================================

type mineRequest struct {
	KeyPath    string   `json:"key_path" validate:"required"`
	Account    string   `json:"account" validate:"required"`
	TxFiles    []string `json:"tx_files" validate:"dive,required"`
	Workers    int      `json:"workers" validate:"gte=0"`
	Difficulty uint     `json:"difficulty" validate:"lte=32"`
}

// mine seals the transactions in the files into a block credited to the
// account and writes the block as json.
func mine(ctx context.Context, args Args, w io.Writer) error {
	req := mineRequest{
		KeyPath:    args.KeyPath,
		Account:    args.Account,
		TxFiles:    args.TxFiles,
		Workers:    args.Workers,
		Difficulty: args.Difficulty,
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	miner, err := loadPublicKey(req.KeyPath, req.Account)
	if err != nil {
		return err
	}

	trans, err := readTrans(req.TxFiles)
	if err != nil {
		return err
	}

	// A block with a forged transaction could still be sealed, but it
	// would never validate.
	for i, tx := range trans {
		if !tx.Verify() {
			return fmt.Errorf("%s: %w", req.TxFiles[i], database.ErrInvalidTx)
		}
	}

	cfg := worker.Config{
		Workers:    req.Workers,
		Difficulty: req.Difficulty,
		EvHandler:  args.EvHandler,
	}

	block, err := worker.Mine(ctx, cfg, trans, miner)
	if err != nil {
		return fmt.Errorf("mining: %w", err)
	}

	return output(args.Out, w, block)
}

// =============================================================================

type sendRequest struct {
	URL     string   `json:"url" validate:"required,url"`
	TxFiles []string `json:"tx_files" validate:"required,min=1,dive,required"`
}

// send broadcasts the transactions in the files through a relay hub.
func send(ctx context.Context, args Args, w io.Writer) error {
	req := sendRequest{
		URL:     args.URL,
		TxFiles: args.TxFiles,
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	trans, err := readTrans(req.TxFiles)
	if err != nil {
		return err
	}

	client, err := network.Dial(ctx, req.URL)
	if err != nil {
		return err
	}
	defer client.Close()

	var bc network.Broadcaster = client
	for i, tx := range trans {
		if err := bc.Broadcast(ctx, tx); err != nil {
			return fmt.Errorf("%s: broadcast: %w", req.TxFiles[i], err)
		}

		args.EvHandler("commands: send: url[%s] tx[%s]", req.URL, tx)
		fmt.Fprintf(w, "%s %s sent\n", req.TxFiles[i], tx)
	}

	return nil
}

// =============================================================================

// readTrans reads one json encoded transaction from each file.
func readTrans(files []string) ([]database.Tx, error) {
	trans := make([]database.Tx, len(files))
	for i, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(data, &trans[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}

	return trans, nil
}

// output writes the value as indented json to the file, or to w when no
// file is specified.
func output(file string, w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if file == "" {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}

	return os.WriteFile(file, append(data, '\n'), 0644)
}
