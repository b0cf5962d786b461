package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/validation"
)

var fileMIME string

var errInvalid = errors.New("input is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate <kind> <value|->",
	Short: "Validate a single value",
	Long: `Validate a value with one of the field validators. Kinds: email,
password, username, card, phone, token, file, apikey, dataset.

Pass "-" to read the value from stdin so secrets stay out of shell history.
For file the value is a path; for dataset it is a JSON array file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToLower(args[0])
		value, err := readValue(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}

		var (
			result   validation.Result
			safeName string
		)
		switch kind {
		case "email":
			result = validation.ValidateEmail(value)
		case "password":
			result = validation.ValidatePassword(value)
		case "username":
			result = validation.ValidateUsername(value)
		case "card":
			result = validation.ValidateCreditCard(value)
		case "phone":
			result = validation.ValidatePhone(value)
		case "token":
			result = validation.ValidateToken(value)
		case "file":
			result, safeName, err = validateFile(value)
		case "apikey":
			result = validateAPIKey(value)
		case "dataset":
			result, err = validateDataset(cmd, value)
		default:
			return fmt.Errorf("unknown kind %q", kind)
		}
		if err != nil {
			return err
		}

		var report any = result
		if kind == "file" {
			report = fileReport{SafeName: safeName, Result: result}
		}
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !result.IsValid {
			return errInvalid
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&fileMIME, "mime", "", "declared MIME type for file validation (sniffed when empty)")
	validateCmd.Flags().String("expected", "", "expected API key (defaults to api_key from config or $FORMKIT_API_KEY)")
	if err := v.BindPFlag("api_key", validateCmd.Flags().Lookup("expected")); err != nil {
		panic(fmt.Sprintf("bind expected flag: %v", err))
	}
}

// fileReport adds the name the file would be stored under.
type fileReport struct {
	SafeName string `json:"safeName"`
	validation.Result
}

func readValue(stdin io.Reader, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func validateFile(path string) (validation.Result, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return validation.Result{}, "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return validation.Result{}, "", err
	}
	mimeType := fileMIME
	if mimeType == "" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		mimeType = strings.SplitN(http.DetectContentType(head[:n]), ";", 2)[0]
	}
	name := filepath.Base(path)
	result := validation.ValidateFile(&validation.FileInput{
		Name:     name,
		Size:     info.Size(),
		MIMEType: mimeType,
	})
	return result, validation.SanitizeFilename(name), nil
}

func validateAPIKey(provided string) validation.Result {
	result := validation.NewResult()
	if !validation.ValidateAPIKey(provided, cfg.APIKey) {
		result.AddError("API key is not valid")
	}
	return result
}

func validateDataset(cmd *cobra.Command, path string) (validation.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return validation.Result{}, err
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return validation.Result{}, fmt.Errorf("dataset must be a JSON array: %w", err)
	}
	return validation.ValidateDataset(cmd.Context(), items,
		validation.WithProgress(func(processed, total int) {
			logger.Debug("dataset progress", zap.Int("processed", processed), zap.Int("total", total))
		}),
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
