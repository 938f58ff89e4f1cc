// Command headerengine-cli is a thin JSON-in/JSON-out harness around the
// consensus core: it reads one (ChainState, Block) request from stdin, runs
// the transition, and writes the resulting state or error to stdout. It
// carries no consensus logic of its own.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/blockverify/headerengine/config"
	"github.com/blockverify/headerengine/hashcap"
	"github.com/blockverify/headerengine/store"
)

func main() {
	cfg := config.DefaultConfig()
	if dir := os.Getenv("HEADERENGINE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		logger.Error("open store", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return
	}

	resp := Execute(req, hashcap.ChainhashPrimitive{}, db, logger)
	writeResp(os.Stdout, resp)
}

func writeResp(w *os.File, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}
