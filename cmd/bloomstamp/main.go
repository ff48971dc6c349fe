// bloomstamp - mint, verify and redeem bloom filter work stamps
//
// Usage:
//
//	bloomstamp [options] <command> [arguments]
//
// Commands:
//
//	add <key> <element...>       Add elements to a shared filter (needs redis)
//	mint [-name N] [-shared K] [element...]
//	                             Saturate a filter seeded with elements and,
//	                             with -shared, the bits of shared filter K
//	verify <hex>                 Check a stamp is one step below threshold
//	redeem <hex>                 Verify a stamp and mark it spent (needs redis)
//	hashes <element>             Print the last raw hash of an element
//	count <hex>                  Print the number of set bits of a filter
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/expede/bloomstamp"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage error")

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		if err != errUsage {
			fmt.Fprintf(os.Stderr, "bloomstamp: %s\n", err)
		}
		os.Exit(1)
	}
}

type app struct {
	cfg Config
	log *zap.Logger
	out io.Writer
	rc  redis.UniversalClient
	sat *bloomstamp.Saturator
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bloomstamp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "JSON config file")
	redisURL := fs.String("redis", "", "Redis URL (overrides config)")
	prefix := fs.String("prefix", "", "Redis key prefix (overrides config)")
	logLevel := fs.String("log-level", "", "Log level (overrides config)")
	maxSteps := fs.Int("max-steps", -1, "Saturation step limit, 0 for none (overrides config)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: bloomstamp [options] add|mint|verify|redeem|hashes|count [arguments]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			return err
		}
	}
	if *redisURL != "" {
		cfg.RedisURL = *redisURL
	}
	if *prefix != "" {
		cfg.KeyPrefix = *prefix
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *maxSteps >= 0 {
		cfg.MaxSteps = *maxSteps
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := cfg.logger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	a := &app{
		cfg: cfg,
		log: log,
		out: stdout,
		sat: bloomstamp.NewSaturator(bloomstamp.SHA256,
			bloomstamp.WithLogger(log),
			bloomstamp.WithMaxSteps(cfg.MaxSteps)),
	}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid redis URL: %w", err)
		}
		c := redis.NewClient(opts)
		defer c.Close()
		a.rc = c
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}
	switch rest[0] {
	case "add":
		return a.add(ctx, rest[1:])
	case "mint":
		return a.mint(ctx, rest[1:])
	case "verify":
		return a.verify(ctx, rest[1:])
	case "redeem":
		return a.redeem(ctx, rest[1:])
	case "hashes":
		return a.hashes(rest[1:])
	case "count":
		return a.count(rest[1:])
	default:
		fs.Usage()
		return errUsage
	}
}

func (a *app) mint(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	name := fs.String("name", "", "Name to store the stamp under (default: random UUID)")
	shared := fs.String("shared", "", "Shared filter key to seed from (needs redis)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	f := bloomstamp.New()
	if *shared != "" {
		rf, err := a.sharedFilter(*shared)
		if err != nil {
			return err
		}
		f, err = rf.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("snapshot failed: key=%s: %w", *shared, err)
		}
	}
	for _, s := range fs.Args() {
		f.AddString(s)
	}
	stamp, err := a.sat.Saturate(ctx, f)
	if err != nil {
		return fmt.Errorf("saturate failed: %w", err)
	}
	out := hex.EncodeToString(stamp.Bytes())
	if a.rc == nil {
		fmt.Fprintln(a.out, out)
		return nil
	}
	if *name == "" {
		*name = uuid.NewString()
	}
	err = bloomstamp.NewRedisStore(a.rc, a.cfg.KeyPrefix+"stamp:").Save(ctx, *name, stamp)
	if err != nil {
		return err
	}
	a.log.Info("stamp stored", zap.String("name", *name), zap.Int("ones", stamp.CountOnes()))
	fmt.Fprintln(a.out, *name, out)
	return nil
}

func (a *app) sharedFilter(key string) (*bloomstamp.Redis, error) {
	if a.rc == nil {
		return nil, errors.New("shared filters require a redis URL")
	}
	return bloomstamp.NewRedis(a.rc, a.cfg.KeyPrefix+"shared:"+key), nil
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: expected a key and elements", errUsage)
	}
	rf, err := a.sharedFilter(args[0])
	if err != nil {
		return err
	}
	for _, s := range args[1:] {
		if err := rf.Add(ctx, []byte(s)); err != nil {
			return fmt.Errorf("add failed: key=%s: %w", args[0], err)
		}
	}
	n, err := rf.CountOnes(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, n)
	return nil
}

func parseFilter(args []string) (bloomstamp.Filter, error) {
	if len(args) != 1 {
		return bloomstamp.Filter{}, fmt.Errorf("%w: expected one hex filter", errUsage)
	}
	b, err := hex.DecodeString(args[0])
	if err != nil {
		return bloomstamp.Filter{}, fmt.Errorf("invalid hex filter: %w", err)
	}
	return bloomstamp.FromBytes(b)
}

func (a *app) verify(ctx context.Context, args []string) error {
	f, err := parseFilter(args)
	if err != nil {
		return err
	}
	ok, err := a.sat.Verify(ctx, f)
	if err != nil {
		return err
	}
	if !ok {
		return bloomstamp.ErrInvalidStamp
	}
	fmt.Fprintln(a.out, "ok")
	return nil
}

func (a *app) redeem(ctx context.Context, args []string) error {
	if a.rc == nil {
		return errors.New("redeem requires a redis URL")
	}
	f, err := parseFilter(args)
	if err != nil {
		return err
	}
	ttl, err := a.cfg.spentTTL()
	if err != nil {
		return err
	}
	spent := bloomstamp.NewRedisSpent(a.rc, a.cfg.KeyPrefix+"spent:", ttl)
	if err := bloomstamp.NewRedeemer(a.sat, spent).Redeem(ctx, f); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "ok")
	return nil
}

func (a *app) hashes(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one element", errUsage)
	}
	fmt.Fprintln(a.out, strconv.FormatUint(uint64(bloomstamp.Hashes([]byte(args[0]))), 10))
	return nil
}

func (a *app) count(args []string) error {
	f, err := parseFilter(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, f.CountOnes())
	return nil
}
