/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	tdw "github.com/trustbloc/didwebvh-go"
	"github.com/trustbloc/didwebvh-go/fetch"
)

func main() {
	app := &cli.App{
		Name:  "didwebvh",
		Usage: "create, update, deactivate, and resolve did:webvh identifiers",
		Commands: []*cli.Command{
			createCmd,
			updateCmd,
			deactivateCmd,
			resolveCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var createCmd = &cli.Command{
	Name:  "create",
	Usage: "mint a new did:webvh log",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "did", Required: true, EnvVars: []string{"DIDWEBVH_DID"},
			Usage: `identifier to mint, containing the literal "{SCID}" placeholder, e.g. did:webvh:{SCID}:example.com`},
		&cli.StringFlag{Name: "key-out", Required: true, EnvVars: []string{"DIDWEBVH_KEY_OUT"},
			Usage: "path to write the generated signing key (base64 ed25519 seed)"},
		&cli.StringFlag{Name: "log-out", Required: true, EnvVars: []string{"DIDWEBVH_LOG_OUT"},
			Usage: "path to write the resulting did.jsonl"},
		&cli.BoolFlag{Name: "portable", EnvVars: []string{"DIDWEBVH_PORTABLE"},
			Usage: "allow this DID to migrate to a new domain later"},
	},
	Action: func(c *cli.Context) error {
		signer, err := tdw.NewSigner()
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}

		doc, err := tdw.NewMinimalDIDDocument(c.String("did"))
		if err != nil {
			return err
		}

		params := tdw.LogParams{}
		if c.Bool("portable") {
			portable := true
			params.Portable = &portable
		}

		l, err := tdw.Create(doc, signer, params)
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}

		if err := writeKey(c.String("key-out"), signer); err != nil {
			return err
		}

		if err := writeLog(c.String("log-out"), l); err != nil {
			return err
		}

		fmt.Printf("created %s\n", l.Document()["id"])

		return nil
	},
}

var updateCmd = &cli.Command{
	Name:  "update",
	Usage: "append a new version to an existing did:webvh log",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "log", Required: true, EnvVars: []string{"DIDWEBVH_LOG"},
			Usage: "path to the existing did.jsonl, overwritten in place"},
		&cli.StringFlag{Name: "key", Required: true, EnvVars: []string{"DIDWEBVH_KEY"},
			Usage: "path to the signing key, as written by create"},
		&cli.StringFlag{Name: "doc", Required: true, EnvVars: []string{"DIDWEBVH_DOC"},
			Usage: "path to the replacement DID Document, as JSON"},
	},
	Action: func(c *cli.Context) error {
		l, err := readLog(c.String("log"))
		if err != nil {
			return err
		}

		signer, err := readKey(c.String("key"))
		if err != nil {
			return err
		}

		doc, err := readDoc(c.String("doc"))
		if err != nil {
			return err
		}

		if err := l.Update(tdw.LogParams{}, doc, signer); err != nil {
			return fmt.Errorf("update: %w", err)
		}

		return writeLog(c.String("log"), l)
	},
}

var deactivateCmd = &cli.Command{
	Name:  "deactivate",
	Usage: "append the terminal entry deactivating a did:webvh log",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "log", Required: true, EnvVars: []string{"DIDWEBVH_LOG"}},
		&cli.StringFlag{Name: "key", Required: true, EnvVars: []string{"DIDWEBVH_KEY"}},
	},
	Action: func(c *cli.Context) error {
		l, err := readLog(c.String("log"))
		if err != nil {
			return err
		}

		signer, err := readKey(c.String("key"))
		if err != nil {
			return err
		}

		if err := l.Deactivate(signer); err != nil {
			return fmt.Errorf("deactivate: %w", err)
		}

		return writeLog(c.String("log"), l)
	},
}

var resolveCmd = &cli.Command{
	Name:  "resolve",
	Usage: "resolve a did:webvh identifier over HTTP(S) and print its DID Document",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "did", Required: true, EnvVars: []string{"DIDWEBVH_DID"}},
		&cli.IntFlag{Name: "max-attempts", Value: 3, EnvVars: []string{"DIDWEBVH_MAX_ATTEMPTS"},
			Usage: "HTTP retry budget for transient fetch failures"},
	},
	Action: func(c *cli.Context) error {
		fetcher := fetch.New(fetch.WithMaxAttempts(uint64(c.Int("max-attempts"))))

		result, err := tdw.NewResolver(fetcher).Resolve(context.Background(), c.String("did"))
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}

		out, err := json.MarshalIndent(result.Document, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(out))

		if result.Deactivated {
			fmt.Fprintln(os.Stderr, "warning: this DID is deactivated")
		}

		return nil
	},
}

func writeKey(path string, signer *tdw.Signer) error {
	encoded := base64.StdEncoding.EncodeToString(signer.Seed())

	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("write key %s: %w", path, err)
	}

	return nil
}

func readKey(path string) (*tdw.Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", path, err)
	}

	seed, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode key %s: %w", path, err)
	}

	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key %s: expected %d-byte seed, got %d", path, ed25519.SeedSize, len(seed))
	}

	return tdw.NewSignerFromKey(ed25519.NewKeyFromSeed(seed)), nil
}

func readLog(path string) (*tdw.DIDLog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}

	l, err := tdw.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("load log %s: %w", path, err)
	}

	return l, nil
}

func writeLog(path string, l *tdw.DIDLog) error {
	text, err := l.MarshalText()
	if err != nil {
		return fmt.Errorf("marshal log: %w", err)
	}

	if err := os.WriteFile(path, text, 0o600); err != nil {
		return fmt.Errorf("write log %s: %w", path, err)
	}

	return nil
}

func readDoc(path string) (tdw.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	var doc tdw.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}

	return doc, nil
}
