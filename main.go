// dnsrecon is a DNS reconnaissance tool for OSINT investigations.
// It resolves records against multiple configurable resolvers with
// per-nameserver rate limiting, and derives investigation signals:
// cross-resolver inconsistency, wildcard DNS, response-time anomalies.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"dnsrecon/config"
	"dnsrecon/engine"
	"dnsrecon/ops"
	"dnsrecon/ratelimit"
)

const version = "1.0.0"

type cliOptions struct {
	domain       string
	ip           string
	recordType   string
	resolverType string
	nameserver   string
	resolvers    []string
	inputFile    string
	outputFormat string
	qps          int
	timeout      int
	workers      int
	testCount    int
	iterations   int
	verbose      bool
	showVersion  bool
}

func main() {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("dnsrecon v%s\n", version)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(2)
	}
	operation := args[0]

	logger := setupLogger(opts.verbose)

	cfg := config.Default()
	if opts.qps > 0 {
		cfg.RateLimit = opts.qps
	}

	pool := ratelimit.NewPool(cfg.RateLimit)
	eng := engine.New(cfg, pool, nil, logger)
	registry := ops.NewRegistry(cfg, eng)

	params, err := buildParams(operation, opts)
	if err != nil {
		logger.Fatalf("Invalid arguments: %v", err)
	}

	// Graceful shutdown: a signal cancels in-flight queries.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	result, err := registry.Invoke(ctx, operation, params)
	if err != nil {
		logger.Fatalf("Operation %s failed: %v", operation, err)
	}

	if err := writeResult(os.Stdout, opts.outputFormat, result); err != nil {
		logger.Fatalf("Error writing result: %v", err)
	}
}

func parseFlags() *cliOptions {
	opts := &cliOptions{}

	flag.StringVarP(&opts.domain, "domain", "d", "", "Domain name to query")
	flag.StringVar(&opts.ip, "ip", "", "IP address for reverse lookup")
	flag.StringVarP(&opts.recordType, "type", "t", "A", "DNS record type (A,AAAA,MX,TXT,NS,SOA,CNAME,CAA,SRV,PTR)")
	flag.StringVarP(&opts.resolverType, "resolver", "r", "system", "Resolver profile: "+strings.Join(config.ResolverTypes(), ", "))
	flag.StringVarP(&opts.nameserver, "nameserver", "n", "", "Custom nameserver IP (overrides --resolver)")
	flag.StringSliceVar(&opts.resolvers, "resolvers", nil, "name=address pairs for propagation_check")
	flag.StringVarP(&opts.inputFile, "input", "i", "", "Input file with domains/IPs for bulk operations (default: stdin)")
	flag.StringVarP(&opts.outputFormat, "format", "f", "json", "Output format: json, simple")
	flag.IntVar(&opts.qps, "qps", 0, "Queries per second per nameserver (default 30)")
	flag.IntVar(&opts.timeout, "timeout", 0, "Per-query timeout in seconds")
	flag.IntVarP(&opts.workers, "workers", "w", 0, "Maximum concurrent queries for bulk operations")
	flag.IntVar(&opts.testCount, "test-count", 0, "Random subdomain probes for wildcard_check")
	flag.IntVar(&opts.iterations, "iterations", 0, "Query iterations for response_analysis")
	flag.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")

	flag.Usage = printUsage
	flag.Parse()

	return opts
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "dnsrecon - DNS reconnaissance for OSINT investigations")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: dnsrecon [options] <operation>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Operations:")
	fmt.Fprintln(os.Stderr, "  query, reverse_lookup, bulk_query, bulk_reverse_lookup,")
	fmt.Fprintln(os.Stderr, "  query_all, propagation_check, wildcard_check, response_analysis")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  dnsrecon -d example.com -t MX query")
	fmt.Fprintln(os.Stderr, "  dnsrecon --ip 8.8.8.8 reverse_lookup")
	fmt.Fprintln(os.Stderr, "  dnsrecon -i domains.txt -t A -w 20 bulk_query")
	fmt.Fprintln(os.Stderr, "  dnsrecon -d suspicious.example propagation_check")
	fmt.Fprintln(os.Stderr, "  dnsrecon -d suspicious.example --test-count 5 wildcard_check")
}

func setupLogger(verbose bool) *log.Logger {
	flags := log.LstdFlags
	if verbose {
		flags |= log.Lshortfile
	}
	return log.New(os.Stderr, "[DNSRECON] ", flags)
}

// buildParams translates CLI flags into the registry's JSON parameter
// envelope, reading item lists for bulk operations from the input file or
// stdin.
func buildParams(operation string, opts *cliOptions) (json.RawMessage, error) {
	params := ops.Params{
		Domain:       opts.domain,
		IP:           opts.ip,
		RecordType:   opts.recordType,
		ResolverType: opts.resolverType,
		Nameserver:   opts.nameserver,
		Timeout:      opts.timeout,
		MaxWorkers:   opts.workers,
		TestCount:    opts.testCount,
		Iterations:   opts.iterations,
	}

	switch operation {
	case "bulk_query", "bulk_reverse_lookup":
		items, err := readItems(opts.inputFile)
		if err != nil {
			return nil, err
		}
		if operation == "bulk_query" {
			params.Domains = items
		} else {
			params.IPs = items
		}
	case "propagation_check":
		if len(opts.resolvers) > 0 {
			params.Resolvers = make(map[string]string, len(opts.resolvers))
			for _, pair := range opts.resolvers {
				name, addr, ok := strings.Cut(pair, "=")
				if !ok {
					return nil, fmt.Errorf("malformed resolver %q, expected name=address", pair)
				}
				params.Resolvers[name] = addr
			}
		}
	}

	return json.Marshal(params)
}
