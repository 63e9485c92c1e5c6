// Command token prints a bearer token for feed pollers and dispatch
// operators, signed with the configured JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/valortpms/real-time-map-sub001/internal/auth"
	"github.com/valortpms/real-time-map-sub001/internal/config"
)

func main() {
	if err := run(os.Args[1:], config.Load(), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, cfg config.Config, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	operator := fs.String("operator", "", "operator id stored in the token")
	ttl := fs.Duration("ttl", auth.OperatorTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := auth.SignToken(cfg.JWTSecret, *operator, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

