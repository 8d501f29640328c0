package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type uploadOptions struct {
	server   string
	title    string
	kind     string
	schedule string
	identity string
	prefix   string
	token    string
	timeout  time.Duration
}

func newUploadCommand() *cobra.Command {
	opts := uploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload [path]",
		Short: "Upload a video to the ingest service and print the run summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" && opts.identity == "" {
				return errors.New("either a file path or --identity is required")
			}

			body, contentType, err := buildUploadBody(path, opts)
			if err != nil {
				return err
			}

			endpoint, err := uploadURL(opts.server, opts.prefix)
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, endpoint, body)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", contentType)
			if opts.token != "" {
				req.Header.Set("Authorization", "Bearer "+opts.token)
			}

			resp, err := (&http.Client{Timeout: opts.timeout}).Do(req)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return fmt.Errorf("ingest service responded %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				pretty.Reset()
				pretty.Write(raw)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "Ingest service base URL")
	cmd.Flags().StringVar(&opts.title, "title", "", "Video title")
	cmd.Flags().StringVar(&opts.kind, "type", "", "Video type")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "Schedule date-time")
	cmd.Flags().StringVar(&opts.identity, "identity", "", "Identity of an already stored object, instead of a file")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Key prefix override")
	cmd.Flags().StringVar(&opts.token, "token", "", "Bearer token when the service requires auth")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "Request timeout")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func buildUploadBody(path string, opts uploadOptions) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":            opts.title,
		"videoType":        opts.kind,
		"scheduleDateTime": opts.schedule,
		"filename":         opts.identity,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		part, err := w.CreateFormFile("video", filepath.Base(path))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("read file: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func uploadURL(server, prefix string) (string, error) {
	u, err := url.Parse(strings.TrimRight(server, "/") + "/upload-video")
	if err != nil {
		return "", fmt.Errorf("invalid --server: %w", err)
	}
	if prefix != "" {
		q := u.Query()
		q.Set("prefix", prefix)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
