package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/witness"
)

func main() {
	var inputPath string

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd := &cobra.Command{
		Use:   "verifier",
		Short: "Replay a flattened receipt inclusion proof against its claimed root",
		RunE: func(cmd *cobra.Command, args []string) error {
			jBytes, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}

			var input witness.CircuitInput
			if err := json.Unmarshal(jBytes, &input); err != nil {
				return err
			}

			if err := witness.VerifyInput(&input); err != nil {
				return err
			}
			log.Info().
				Str("root", input.Root.Hex()).
				Str("key", input.Key.String()).
				Msg("proof verified")
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "receipt_input.json emitted by the prover")
	_ = cmd.MarkFlagRequired("input")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("verification failed")
	}
}
