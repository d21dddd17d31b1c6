package main

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	jwttoken "organmatch/internal/jwt_token"
	id "organmatch/pkg/domain"
)

var tokenCmd = &cli.Command{
	Name:  "token",
	Usage: "Mint a bearer token for a hospital tenant",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "tenant", Required: true, Usage: "hospital tenant ID"},
		&cli.StringFlag{Name: "subject", Value: "matchctl", Usage: "operator the token acts for"},
		&cli.DurationFlag{Name: "ttl", Value: 8 * time.Hour, Usage: "token lifetime"},
		&cli.StringFlag{Name: "signing-key", Required: true, EnvVars: []string{"JWT_SIGNING_KEY"}, Usage: "HS256 signing key shared with the server"},
		&cli.StringFlag{Name: "issuer", Value: "organmatch", EnvVars: []string{"JWT_ISSUER"}, Usage: "token issuer"},
	},
	Action: func(ctx *cli.Context) error {
		tenantID, err := id.ParseTenantID(ctx.String("tenant"))
		if err != nil {
			return err
		}
		if ctx.Duration("ttl") <= 0 {
			return errors.New("invalid ttl")
		}
		svc := jwttoken.NewJWTService(ctx.String("signing-key"), ctx.String("issuer"))
		token, err := svc.GenerateTenantToken(tenantID, ctx.String("subject"), ctx.Duration("ttl"))
		if err != nil {
			return err
		}
		_, err = ctx.App.Writer.Write([]byte(token + "\n"))
		return err
	},
}

var matchCmd = &cli.Command{
	Name:    "match",
	Usage:   "Attempt one match for the tenant",
	Aliases: []string{"m"},
	Action: func(ctx *cli.Context) error {
		return newClient(ctx).call(ctx.Context, http.MethodPost, "/matches", nil, nil)
	},
}

var listCmd = &cli.Command{
	Name:  "list",
	Usage: "List matches, optionally by state",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "state", Usage: "reserved, committed or released"},
	},
	Action: func(ctx *cli.Context) error {
		q := url.Values{}
		if s := ctx.String("state"); s != "" {
			q.Set("state", s)
		}
		return newClient(ctx).call(ctx.Context, http.MethodGet, "/matches", q, nil)
	},
}

var commitCmd = &cli.Command{
	Name:      "commit",
	Usage:     "Commit a reserved match to the transplant ledger",
	ArgsUsage: "MATCH_ID",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "notes", Usage: "free-text notes stored with the record"},
	},
	Action: func(ctx *cli.Context) error {
		matchID, err := matchArg(ctx)
		if err != nil {
			return err
		}
		body := map[string]string{"notes": ctx.String("notes")}
		return newClient(ctx).call(ctx.Context, http.MethodPost, "/matches/"+url.PathEscape(matchID)+"/commit", nil, body)
	},
}

var releaseCmd = &cli.Command{
	Name:      "release",
	Usage:     "Release a reserved match and return both people to the pool",
	ArgsUsage: "MATCH_ID",
	Action: func(ctx *cli.Context) error {
		matchID, err := matchArg(ctx)
		if err != nil {
			return err
		}
		return newClient(ctx).call(ctx.Context, http.MethodPost, "/matches/"+url.PathEscape(matchID)+"/release", nil, nil)
	},
}

var recordsCmd = &cli.Command{
	Name:    "records",
	Usage:   "Query the transplant ledger",
	Aliases: []string{"r"},
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "donor", Usage: "donor ID or name"},
		&cli.StringFlag{Name: "recipient", Usage: "recipient ID or name"},
		&cli.StringFlag{Name: "organ", Usage: "Heart, Lung, Liver, Kidney, Pancreas or Eyes"},
		&cli.StringFlag{Name: "date", Usage: "commit date, YYYY-MM-DD"},
		&cli.IntFlag{Name: "year", Usage: "commit year"},
		&cli.IntFlag{Name: "month", Usage: "commit month, requires --year"},
		&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "free-text search"},
		&cli.IntFlag{Name: "limit", Usage: "maximum records, 0 for all"},
		&cli.IntFlag{Name: "offset", Usage: "skip this many of the newest records"},
	},
	Action: func(ctx *cli.Context) error {
		q := url.Values{}
		for flag, param := range map[string]string{
			"donor": "donor", "recipient": "recipient", "organ": "organ", "date": "date", "search": "q",
		} {
			if v := ctx.String(flag); v != "" {
				q.Set(param, v)
			}
		}
		for _, flag := range []string{"year", "month", "limit", "offset"} {
			if v := ctx.Int(flag); v != 0 {
				q.Set(flag, strconv.Itoa(v))
			}
		}
		return newClient(ctx).call(ctx.Context, http.MethodGet, "/transplants", q, nil)
	},
}

func matchArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", errors.New("exactly one MATCH_ID is required")
	}
	matchID, err := id.ParseMatchID(ctx.Args().First())
	if err != nil {
		return "", err
	}
	return matchID.String(), nil
}
