package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/witness"
)

func main() {
	var (
		rpcURL   string
		blockNum uint64
		txIndex  uint64
		outDir   string
	)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "prover",
		Short: "Build the receipts trie for a block and emit a flattened inclusion proof",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rpcURL == "" {
				_ = godotenv.Load()
				rpcURL = os.Getenv("RPC_URL")
				if rpcURL == "" {
					return fmt.Errorf("--rpc flag or RPC_URL env var is required")
				}
			}

			start := time.Now()
			bundle, err := witness.Build(cmd.Context(), rpcURL, blockNum, txIndex)
			if err != nil {
				return err
			}
			log.Info().
				Uint64("block", blockNum).
				Uint64("tx", txIndex).
				Str("root", bundle.Input.Root.Hex()).
				Int("proofNodes", len(bundle.Input.ProofNodeLengths)).
				Msg("receipts trie built and cross-checked")

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			inputPath := filepath.Join(outDir, "receipt_input.json")
			jsonBytes, err := json.MarshalIndent(bundle.Input, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(inputPath, jsonBytes, 0o644); err != nil {
				return err
			}

			witPath := filepath.Join(outDir, "receipt_witness.bin")
			witBytes, err := bundle.Full.MarshalBinary()
			if err != nil {
				return err
			}
			if err := os.WriteFile(witPath, witBytes, 0o644); err != nil {
				return err
			}

			log.Info().
				Str("input", inputPath).
				Str("witness", witPath).
				Dur("elapsed", time.Since(start)).
				Msg("proof artifacts written")
			return nil
		},
	}

	rootCmd.Flags().StringVar(&rpcURL, "rpc", "", "Archive RPC URL")
	rootCmd.Flags().Uint64Var(&blockNum, "block", 0, "Block number")
	rootCmd.Flags().Uint64Var(&txIndex, "tx", 0, "Transaction index within the block")
	rootCmd.Flags().StringVar(&outDir, "outdir", "./", "Output directory")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("prover failed")
	}
}
