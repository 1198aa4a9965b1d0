// ABOUTME: Open command for launching APOD media in the browser
// ABOUTME: Resolves a date like show and opens the image or video link

package main

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/harper/apod/internal/resolve"
	"github.com/harper/apod/internal/timeutil"
	"github.com/harper/apod/internal/tui"
)

var openCmd = &cobra.Command{
	Use:   "open [date]",
	Short: "Open the picture in your browser",
	Long:  "Resolve a date like 'apod show' and open its image or video in your default browser. Use --hd for the high resolution image.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hd, _ := cmd.Flags().GetBool("hd")

		date, mode, err := requestFromArgs(args, false, resolver.Location())
		if err != nil {
			return err
		}

		res, err := resolveWithConfirm(cmd.Context(), resolver, date, mode, nil)
		if err != nil {
			return err
		}
		if res.Status != resolve.StatusResolved {
			return fmt.Errorf("%s", tui.UnresolvedMessage(res))
		}

		if err := openMedia(res.Record.BestURL(hd)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "v Opened %s (%s)\n", res.Record.Title, timeutil.Format(res.EffectiveDate))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().Bool("hd", false, "open the high resolution image when available")
}

// validateMediaURL rejects anything that is not an absolute http(s) URL.
func validateMediaURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("picture has no link")
	}
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("picture has malformed link: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("picture link must be http or https, got: %s", parsedURL.Scheme)
	}
	return parsedURL.String(), nil
}

// openMedia validates a media URL and hands it to the browser.
func openMedia(raw string) error {
	u, err := validateMediaURL(raw)
	if err != nil {
		return err
	}
	if err := openBrowser(u); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// openBrowser opens a URL in the default browser for the current platform
func openBrowser(urlStr string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", urlStr)
	case "linux":
		cmd = exec.Command("xdg-open", urlStr)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", urlStr)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	// Reap the process asynchronously to prevent zombie processes
	go cmd.Wait()

	return nil
}
