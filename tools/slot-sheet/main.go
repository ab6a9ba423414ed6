// Command slot-sheet prints the bookable start times for a day as served by the gateway,
// and optionally checks a proposed booking against the club rules.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

type options struct {
	baseURL     string
	date        string
	duration    string
	courtType   string
	courtNumber int
	at          string
}

type slotsResponse struct {
	Date          string `json:"date"`
	DateLabel     string `json:"dateLabel"`
	DurationLabel string `json:"durationLabel"`
	Slots         []struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Range string `json:"range"`
	} `json:"slots"`
}

type validationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

func main() {
	var opts options
	fs := flag.NewFlagSet("slot-sheet", flag.ExitOnError)
	fs.StringVar(&opts.baseURL, "base-url", getenv("BASE_URL", "http://localhost:8080"), "gateway base url")
	fs.StringVar(&opts.date, "date", "", "day to list (YYYY-MM-DD), defaults to today at the club")
	fs.StringVar(&opts.duration, "duration", "1", "booking length in hours")
	fs.StringVar(&opts.courtType, "court-type", "", "court type to check a booking for (padel or tennis)")
	fs.IntVar(&opts.courtNumber, "court", 0, "court number to check a booking for")
	fs.StringVar(&opts.at, "at", "", "start time to check a booking for (HH:MM)")
	_ = fs.Parse(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code, err := run(ctx, &http.Client{}, opts, os.Stdout)
	if err != nil {
		fatal(err.Error())
	}
	os.Exit(code)
}

// run prints the sheet and returns 1 when a checked booking is invalid.
func run(ctx context.Context, client *http.Client, opts options, out io.Writer) (int, error) {
	base := strings.TrimRight(opts.baseURL, "/")

	q := url.Values{}
	q.Set("duration", opts.duration)
	if opts.date != "" {
		q.Set("date", opts.date)
	}
	var sheet slotsResponse
	if err := getJSON(ctx, client, base+"/api/v1/schedule/slots?"+q.Encode(), &sheet); err != nil {
		return 0, err
	}

	fmt.Fprintf(out, "%s (%s), %s\n", sheet.Date, sheet.DateLabel, sheet.DurationLabel)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tSLOT")
	for _, s := range sheet.Slots {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Start, s.End, s.Range)
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}
	fmt.Fprintf(out, "%d slots\n", len(sheet.Slots))

	if opts.at == "" {
		return 0, nil
	}

	var duration float64
	if _, err := fmt.Sscanf(opts.duration, "%g", &duration); err != nil {
		return 0, fmt.Errorf("invalid duration %q", opts.duration)
	}
	body, err := json.Marshal(map[string]any{
		"courtType":   opts.courtType,
		"courtNumber": opts.courtNumber,
		"date":        sheet.Date,
		"timeSlot":    opts.at,
		"duration":    duration,
	})
	if err != nil {
		return 0, err
	}
	var res validationResponse
	if err := postJSON(ctx, client, base+"/api/v1/bookings/validate", body, &res); err != nil {
		return 0, err
	}
	if res.Valid {
		fmt.Fprintf(out, "booking %s court %d at %s: ok\n", opts.courtType, opts.courtNumber, opts.at)
		return 0, nil
	}
	fields := make([]string, 0, len(res.Errors))
	for f := range res.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	fmt.Fprintf(out, "booking %s court %d at %s: invalid\n", opts.courtType, opts.courtNumber, opts.at)
	for _, f := range fields {
		fmt.Fprintf(out, "  %s: %s\n", f, res.Errors[f])
	}
	return 1, nil
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return doJSON(client, req, out)
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON(client, req, out)
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status=%d: %s", req.Method, req.URL.Path, resp.StatusCode, msg)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Join(fmt.Errorf("decode %s", req.URL.Path), err)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
