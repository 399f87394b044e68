// Command signup walks a sign-up session through the workflow state machine
// against a running backend, standing in for the browser modal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pick-your-pour/signup-service/internal/client"
	"github.com/pick-your-pour/signup-service/internal/domain"
	"github.com/pick-your-pour/signup-service/internal/signup"
)

func main() {
	baseURL := flag.String("server", "http://localhost:5001", "backend base URL")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	api := client.New(*baseURL)
	wf := signup.NewWorkflow(context.Background(), signup.Dependencies{
		Checker:  api,
		Creator:  api,
		Uploader: api,
		Tracker:  api,
		Logger:   logger,
	})
	defer wf.Close()

	reader := bufio.NewReader(os.Stdin)
	if err := run(wf, reader, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "sign-up aborted:", err)
		os.Exit(1)
	}
}

func run(wf *signup.Workflow, reader *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Pick Your Pour sign up")

	if err := credentialsStep(wf, reader, out); err != nil {
		return err
	}
	if err := iconStep(wf, reader, out); err != nil {
		return err
	}
	if err := phoneStep(wf, reader, out); err != nil {
		return err
	}

	user := wf.CreatedUser()
	fmt.Fprintf(out, "Welcome, %s! Your account is ready. [progress %d%%]\n", user.Username, wf.Progress())
	return nil
}

func credentialsStep(wf *signup.Workflow, reader *bufio.Reader, out io.Writer) error {
	for {
		username, err := prompt(reader, out, "Username")
		if err != nil {
			return err
		}
		email, err := prompt(reader, out, "Email")
		if err != nil {
			return err
		}
		wf.SetUsername(username)
		wf.SetEmail(email)

		err = wf.SubmitCredentials()
		if err == nil {
			fmt.Fprintf(out, "Looks good. [progress %d%%]\n", wf.Progress())
			return nil
		}

		var conflict *signup.ConflictError
		if errors.As(err, &conflict) {
			fmt.Fprintf(out, "Sorry, that %s is already in use, try another.\n", conflict.Field)
			continue
		}
		var invalid *signup.ValidationError
		if errors.As(err, &invalid) {
			fmt.Fprintln(out, invalid.Msg)
			continue
		}
		return err
	}
}

func iconStep(wf *signup.Workflow, reader *bufio.Reader, out io.Writer) error {
	for {
		icon := wf.Icon()
		fmt.Fprintf(out, "Profile icon: %s\n", describeIcon(icon))
		choice, err := prompt(reader, out, "[k]eep / [p]reset / [c]ustom / [u]pload image")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "k", "keep", "":
			return nil
		case "p", "preset":
			id, err := prompt(reader, out, "Preset id")
			if err != nil {
				return err
			}
			if err := wf.SelectPreset(id); err != nil {
				fmt.Fprintln(out, err)
			}
		case "c", "custom":
			if err := customIcon(wf, reader, out); err != nil {
				return err
			}
		case "u", "upload":
			if err := uploadIcon(wf, reader, out); err != nil {
				return err
			}
		default:
			fmt.Fprintln(out, "Unrecognized choice.")
		}
	}
}

func customIcon(wf *signup.Workflow, reader *bufio.Reader, out io.Writer) error {
	if err := wf.OpenCustomIconBuilder(); err != nil {
		return err
	}
	for {
		bg, err := prompt(reader, out, "Background color (hex)")
		if err != nil {
			return err
		}
		fg, err := prompt(reader, out, "Text color (hex)")
		if err != nil {
			return err
		}
		text, err := prompt(reader, out, "Label (exactly 3 characters)")
		if err != nil {
			return err
		}
		if err := wf.SubmitCustomIcon(bg, fg, text); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		return nil
	}
}

func uploadIcon(wf *signup.Workflow, reader *bufio.Reader, out io.Writer) error {
	path, err := prompt(reader, out, "Image path (PNG or JPEG, max 5 MiB)")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(out, "could not read file:", err)
		return nil
	}

	if err := wf.AttachImage(data, mimeTypeFor(path)); err != nil {
		fmt.Fprintln(out, err)
		return nil
	}

	// The terminal has no crop widget; the full square image stands in for
	// the cropped region.
	fmt.Fprintln(out, "Uploading...")
	if err := wf.ConfirmCrop(nil); err != nil {
		fmt.Fprintln(out, err)
	}
	return nil
}

func phoneStep(wf *signup.Workflow, reader *bufio.Reader, out io.Writer) error {
	for {
		raw, err := prompt(reader, out, "Phone for text updates (Enter to skip)")
		if err != nil {
			return err
		}
		wf.SetPhone(raw)

		if err := wf.Submit(); err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		if wf.Step() == signup.StepCommitted {
			return nil
		}

		// Confirmation gate: no phone given.
		answer, err := prompt(reader, out, "No text updates then, continue without a phone? [y/n]")
		if err != nil {
			return err
		}
		if strings.HasPrefix(strings.ToLower(answer), "y") {
			if err := wf.AcceptNoTexts(); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			return nil
		}
		if err := wf.BackToIconSelection(); err != nil {
			return err
		}
		// back at icon selection; loop around to phone entry again after
		// giving the icon menu another pass
		fmt.Fprintln(out, "Returning to icon selection.")
		if err := iconStep(wf, reader, out); err != nil {
			return err
		}
	}
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(out, label+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func describeIcon(icon domain.IconRef) string {
	switch icon.Kind {
	case domain.IconGenerated:
		return fmt.Sprintf("generated initials %q on %s", icon.Initials, icon.Background)
	case domain.IconPreset:
		return "preset " + icon.PresetID
	case domain.IconCustom:
		return fmt.Sprintf("custom %q on %s", icon.Text, icon.Background)
	case domain.IconUploaded:
		return "uploaded image " + icon.URL
	default:
		return "none yet"
	}
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
