package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/hr-assist/internal/failover"
)

const defaultServerURL = "http://localhost:8080"

var errResetAborted = errors.New("reset aborted")

var failoverCmd = &cobra.Command{
	Use:   "failover",
	Short: "Inspect or reset the remote analysis failover state of a running server",
}

var failoverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the failover state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := callFailover(cmd, http.MethodGet, "/api/failover/status")
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), status)
	},
}

var failoverResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the failure counter and re-enable remote analysis",
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirm := promptui.Prompt{
				Label:     "Re-enable remote analysis",
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) {
					return errResetAborted
				}
				return err
			}
		}

		status, err := callFailover(cmd, http.MethodPost, "/api/failover/reset")
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), status)
	},
}

func init() {
	rootCmd.AddCommand(failoverCmd)
	failoverCmd.AddCommand(failoverStatusCmd, failoverResetCmd)

	failoverCmd.PersistentFlags().String("addr", defaultServerURL, "base URL of a running hr-assist server")
	failoverCmd.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")
	failoverResetCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

type failoverReply struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Status  failover.Status `json:"status"`
}

func callFailover(cmd *cobra.Command, method, path string) (failover.Status, error) {
	addr, _ := cmd.Flags().GetString("addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return requestFailover(ctx, http.DefaultClient, strings.TrimRight(addr, "/")+path, method)
}

func requestFailover(ctx context.Context, client *http.Client, url, method string) (failover.Status, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return failover.Status{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return failover.Status{}, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	var reply failoverReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return failover.Status{}, fmt.Errorf("decode %s response (status %d): %w", url, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !reply.Success {
		return failover.Status{}, fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, reply.Message)
	}

	return reply.Status, nil
}
