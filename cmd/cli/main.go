package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/hamed0406/certwatch/internal/batch"
	"github.com/hamed0406/certwatch/internal/domain"
	"github.com/hamed0406/certwatch/internal/probe"
	"github.com/hamed0406/certwatch/internal/report"
)

func main() {
	var (
		hostsFile = flag.String("hosts", "", "file with one host per line (\"-\" for stdin); extra hosts may be given as arguments")
		port      = flag.Int("port", 443, "TLS port shared by all hosts")
		warnDays  = flag.Int("warn", 15, "warn if a certificate expires in <= this many days")
		workers   = flag.Int("workers", 10, "max concurrent checks")
		timeout   = flag.Duration("timeout", 5*time.Second, "per-host connect + handshake timeout")
		csvOut    = flag.String("csv", "", "also write results to this CSV file")
		jsonOut   = flag.String("json", "", "also write results to this JSON file")
	)
	flag.Parse()

	hosts, err := collectHosts(*hostsFile, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	if *port < 1 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "error: port out of range")
		os.Exit(2)
	}

	runner := batch.NewRunner(zap.NewNop(), probe.NewTLSProber(*timeout), *warnDays, *workers)
	runner.OnProgress = func(completed, total int) {
		fmt.Fprintf(os.Stderr, "\rChecking %d/%d hosts...", completed, total)
		if completed == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	res, err := runner.Run(context.Background(), hosts, *port)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	printSummary(res)
	printTable(res)

	if *csvOut != "" {
		if err := writeFile(*csvOut, res, report.WriteCSV); err != nil {
			fmt.Fprintln(os.Stderr, "csv:", err)
			os.Exit(2)
		}
	}
	if *jsonOut != "" {
		if err := writeFile(*jsonOut, res, report.WriteJSON); err != nil {
			fmt.Fprintln(os.Stderr, "json:", err)
			os.Exit(2)
		}
	}

	if res.Summary.Error > 0 {
		os.Exit(1)
	}
}

func collectHosts(file string, args []string) ([]string, error) {
	hosts := append([]string(nil), args...)
	if file == "" {
		return hosts, nil
	}

	var r io.Reader
	if file == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if h := strings.TrimSpace(sc.Text()); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts, sc.Err()
}

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
)

func colorStatus(s domain.Status) string {
	switch s {
	case domain.StatusOK:
		return okColor(string(s))
	case domain.StatusWarning:
		return warnColor(string(s))
	default:
		return errColor(string(s))
	}
}

func printSummary(res *domain.BatchResult) {
	fmt.Printf("Total: %d  %s: %d  %s: %d  %s: %d\n\n",
		res.Summary.Total,
		okColor("OK"), res.Summary.OK,
		warnColor("WARNING"), res.Summary.Warning,
		errColor("ERROR"), res.Summary.Error,
	)

	for _, b := range res.Buckets {
		if b.Count == 0 {
			continue
		}
		fmt.Printf("%-12s %d\n", b.Label, b.Count)
	}
	fmt.Println()
}

func printTable(res *domain.BatchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOST\tPORT\tEXPIRY\tDAYS LEFT\tSTATUS\tERROR")
	for _, row := range report.Rows(res) {
		days := "-"
		if row.DaysLeft != nil {
			days = fmt.Sprintf("%d", *row.DaysLeft)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			row.Host, row.Port, row.Expiry, days, colorStatus(domain.Status(row.Status)), row.Error)
	}
	_ = w.Flush()
}

func writeFile(path string, res *domain.BatchResult, write func(io.Writer, *domain.BatchResult) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
