package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/billing"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/locale"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/recording"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/textutil"
	"github.com/spf13/cobra"
)

func newCheckInCommand() *cobra.Command {
	var mood string
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record today's check-in and print the streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			app, err := bootstrap(cmd.Context(), appConfig, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.streak.CheckIn(time.Now())
			if err != nil {
				return err
			}
			if strings.TrimSpace(mood) != "" {
				if _, err := app.accessors.AddMood(mood); err != nil {
					return err
				}
			}
			affirmations, err := textutil.NewPicker(textutil.Affirmations, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			streakText := app.translations.Render(appConfig.Language, "checkin.streak", map[string]string{
				"count": strconv.Itoa(result.State.Count),
			})
			fmt.Fprintln(out, streakText)
			for _, badge := range result.NewBadges {
				fmt.Fprintf(out, "badge unlocked: %s\n", badge)
			}
			fmt.Fprintln(out, affirmations.Pick())
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "Mood to record with the check-in")
	return cmd
}

func newRecordCommand() *cobra.Command {
	var (
		inputPath string
		mimeType  string
		groupID   string
		text      string
		mood      string
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Capture audio from a file or stdin and share it as a voice post or group message",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			app, err := bootstrap(cmd.Context(), appConfig, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			input := cmd.InOrStdin()
			if inputPath != "-" {
				file, err := os.Open(inputPath)
				if err != nil {
					return err
				}
				defer file.Close()
				input = file
			}

			composer := recording.ComposerPersonal
			if groupID != "" {
				composer = recording.ComposerGroup
			}
			recorder := recording.NewRecorder(func() (*recording.Session, error) {
				return recording.NewSession(recording.SessionConfig{
					Device: recording.NewReaderDevice(input, 0, mimeType),
					Logger: logger,
				})
			})
			defer recorder.Close()

			blob, err := capture(cmd.Context(), recorder, composer)
			if err != nil {
				if guidance := recording.Guidance(err); guidance != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), guidance)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if composer == recording.ComposerGroup {
				if err := app.model.AttachGroupVoice(groupID, blob); err != nil {
					return err
				}
				if err := app.model.SetGroupText(groupID, text); err != nil {
					return err
				}
				message, err := app.model.SendGroupMessage(groupID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "sent voice message %s to %s (%d bytes)\n", message.ID, groupID, len(blob.Data))
				return nil
			}

			app.model.AttachPostVoice(blob)
			app.model.SetPostText(text)
			post, err := app.model.SubmitPost(mood, app.accessors.Settings().AnonymousPosting)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "shared voice post %s (%d bytes, %s)\n", post.ID, len(blob.Data), blob.MIMEType)
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "-", "Audio file to read, - for stdin")
	cmd.Flags().StringVar(&mimeType, "mime", recording.BaselineMIMEType, "Encoding of the input")
	cmd.Flags().StringVar(&groupID, "group", "", "Send to this group chat instead of the feed")
	cmd.Flags().StringVar(&text, "text", "", "Text to send with the recording")
	cmd.Flags().StringVar(&mood, "mood", "", "Mood tag for a feed post")
	return cmd
}

// capture runs one recording until the input is exhausted, counting elapsed
// seconds while it reads.
func capture(ctx context.Context, recorder *recording.Recorder, composer recording.Composer) (recording.Blob, error) {
	session, err := recorder.Start(ctx, composer)
	if err != nil {
		return recording.Blob{}, err
	}
	select {
	case <-session.Drained():
	case <-ctx.Done():
		return recording.Blob{}, ctx.Err()
	}
	return recorder.Stop(composer)
}

func newBannerCommand() *cobra.Command {
	var (
		status    string
		trialEnd  string
		periodEnd string
		cancel    bool
		lang      string
	)
	cmd := &cobra.Command{
		Use:   "banner",
		Short: "Print the payment banner a subscription state warrants",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			parsedStatus, err := billing.ParseStatus(status)
			if err != nil {
				return err
			}
			subscription := billing.Subscription{Status: parsedStatus, CancelAtPeriodEnd: cancel}
			if subscription.TrialEnd, err = parseOptionalTime(trialEnd); err != nil {
				return err
			}
			if subscription.CurrentPeriodEnd, err = parseOptionalTime(periodEnd); err != nil {
				return err
			}

			table, err := locale.DefaultTable()
			if err != nil {
				return err
			}
			if lang == "" {
				lang = appConfig.Language
			}
			return printBanner(cmd.OutOrStdout(), locale.NewTranslationCache(table, logger), lang, billing.SelectBanner(subscription, time.Now()))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Subscription status (trialing, active, past_due, canceled, unpaid)")
	cmd.Flags().StringVar(&trialEnd, "trial-end", "", "Trial end as RFC 3339")
	cmd.Flags().StringVar(&periodEnd, "period-end", "", "Current billing period end as RFC 3339")
	cmd.Flags().BoolVar(&cancel, "cancel-at-period-end", false, "Subscription cancels at the end of the period")
	cmd.Flags().StringVar(&lang, "lang", "", "Language of the message (defaults to app.language)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func parseOptionalTime(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func printBanner(out io.Writer, translations *locale.TranslationCache, lang string, banner billing.Banner) error {
	if !banner.Visible() {
		_, err := fmt.Fprintln(out, "no banner")
		return err
	}
	message := translations.Render(lang, banner.MessageKey(), map[string]string{"days": strconv.Itoa(banner.DaysLeft)})
	_, err := fmt.Fprintf(out, "%s: %s\n", banner.Kind, message)
	return err
}
