package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"idup/internal/config"
	"idup/internal/encryption"
	"idup/internal/idup"
)

func printScanSummary(w io.Writer, s *idup.ScanSummary) {
	fmt.Fprintf(w, "Scan %s: %s\n", s.ID, s.Status)
	fmt.Fprintf(w, "  files seen:    %d\n", s.FilesSeen)
	fmt.Fprintf(w, "  images hashed: %d\n", s.ImagesHashed)
	fmt.Fprintf(w, "  skipped:       %d\n", s.Skipped)
	fmt.Fprintf(w, "  failed:        %d\n", s.Failed)
}

func printMatches(w io.Writer, matches []string) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No duplicates found.")
		return
	}
	for _, m := range matches {
		fmt.Fprintln(w, m)
	}
}

func printGroups(w io.Writer, groups []idup.DuplicateGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No duplicates found.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d images:\n", g.Size())
		for _, p := range g.Paths {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}

func printInfo(w io.Writer, info *idup.ImageInfo) {
	fmt.Fprintf(w, "Path:    %s\n", info.Path)
	if info.Indexed {
		fmt.Fprintln(w, "Indexed: yes")
	} else {
		fmt.Fprintln(w, "Indexed: no (hashes computed, not saved)")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nKIND\tHASH")
	for _, r := range info.Records {
		fmt.Fprintf(tw, "%s\t%s\n", r.Kind, r.Hash)
	}
	tw.Flush()

	if len(info.Partials) > 0 {
		parts := make([]string, len(info.Partials))
		for i, p := range info.Partials {
			parts[i] = p.PartHash
		}
		fmt.Fprintf(w, "\nPartial hashes: %s\n", strings.Join(parts, " "))
	}

	if info.Indexed {
		fmt.Fprintf(w, "\nDuplicates: %d\n", len(info.Duplicates))
		for _, d := range info.Duplicates {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

func printComparison(w io.Writer, c *idup.Comparison) {
	for _, side := range []idup.PHashResult{c.A, c.B} {
		source := "stored"
		if !side.Indexed {
			source = "computed"
		}
		fmt.Fprintf(w, "%016x  %s (%s)\n", side.PHash, side.Path, source)
	}
	fmt.Fprintf(w, "Distance: %d\n", c.Distance)
}

func printHistory(w io.Writer, scans []*idup.ScanRecord) {
	if len(scans) == 0 {
		fmt.Fprintln(w, "No scans recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROOT\tSTARTED\tSTATUS\tDURATION\tSEEN\tHASHED\tSKIPPED\tFAILED")
	for _, s := range scans {
		duration := "-"
		if s.FinishedAt.Valid {
			duration = s.FinishedAt.Time.Sub(s.StartedAt).Round(time.Millisecond).String()
		}
		root := s.Root
		if s.Recursive {
			root += " (recursive)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			s.ID, root, s.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Status, duration,
			s.FilesSeen, s.ImagesHashed, s.Skipped, s.Failed)
	}
	tw.Flush()
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Host ID:   %s\n", cfg.HostID)
	fmt.Fprintf(w, "Base Dir:  %s\n", cfg.BaseDir)
	fmt.Fprintf(w, "Log Dir:   %s\n", cfg.LogDir)
	fmt.Fprintf(w, "Database:  %s", cfg.Database.Type)
	if cfg.Database.Type == "sqlite" {
		fmt.Fprintf(w, " (%s)", cfg.Database.Path())
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Workers:   %d\n", cfg.Scan.Workers)
	if len(cfg.Scan.Ignore) > 0 {
		fmt.Fprintf(w, "Ignore:    %s\n", strings.Join(cfg.Scan.Ignore, ", "))
	}

	fmt.Fprintf(w, "\nVaults (%d):\n", len(cfg.Vaults))
	for _, v := range cfg.Vaults {
		switch v.Type {
		case "s3":
			fmt.Fprintf(w, "  %s: s3://%s/%s", v.Name, v.S3Bucket, v.S3Prefix)
			if v.S3Endpoint != "" {
				fmt.Fprintf(w, " via %s", v.S3Endpoint)
			}
			fmt.Fprintln(w)
		case "filesystem":
			fmt.Fprintf(w, "  %s: filesystem %s\n", v.Name, v.FSVaultRoot)
		default:
			fmt.Fprintf(w, "  %s: %s\n", v.Name, v.Type)
		}
	}

	fmt.Fprintf(w, "\nEncryption: %s\n", cfg.Encryption.Type)
	if cfg.Encryption.Type == "age" {
		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if !enc.IsConfigured() {
			fmt.Fprintln(w, "  not set up, run 'idup config init'")
			return
		}
		recipient, err := enc.Recipient()
		if err != nil {
			fmt.Fprintf(w, "  error reading public key: %v\n", err)
			return
		}
		fmt.Fprintf(w, "  recipient: %s\n", recipient)
	}
}
