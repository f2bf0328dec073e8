package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/billing"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/config"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/locale"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/recording"
	"go.uber.org/zap"
)

func testConfig(testContext *testing.T, backend string) config.AppConfig {
	testContext.Helper()
	configViper := config.NewViper()
	configViper.Set("storage.backend", backend)
	configViper.Set("database.path", filepath.Join(testContext.TempDir(), "yrnalone.db"))
	configViper.Set("app.timezone", "UTC")
	appConfig, err := config.Load(configViper)
	if err != nil {
		testContext.Fatalf("failed to load config: %v", err)
	}
	return appConfig
}

func TestBootstrapPersistsAcrossRestartsWithSQLite(testContext *testing.T) {
	appConfig := testConfig(testContext, config.StorageSQLite)

	first, err := bootstrap(context.Background(), appConfig, zap.NewNop())
	if err != nil {
		testContext.Fatalf("bootstrap failed: %v", err)
	}
	first.model.SetPostText("persisted post")
	post, err := first.model.SubmitPost("", false)
	if err != nil {
		testContext.Fatalf("submit failed: %v", err)
	}
	userID := first.model.User().ID
	first.Close()

	second, err := bootstrap(context.Background(), appConfig, zap.NewNop())
	if err != nil {
		testContext.Fatalf("second bootstrap failed: %v", err)
	}
	defer second.Close()
	if second.model.User().ID != userID {
		testContext.Fatalf("expected stable user id %q, got %q", userID, second.model.User().ID)
	}
	if _, err := second.model.Post(post.ID); err != nil {
		testContext.Fatalf("expected post to survive restart: %v", err)
	}
}

func TestCaptureSharesRecordingThroughRecorder(testContext *testing.T) {
	app, err := bootstrap(context.Background(), testConfig(testContext, config.StorageMemory), zap.NewNop())
	if err != nil {
		testContext.Fatalf("bootstrap failed: %v", err)
	}
	defer app.Close()

	input := strings.NewReader("recorded-audio")
	recorder := recording.NewRecorder(func() (*recording.Session, error) {
		return recording.NewSession(recording.SessionConfig{Device: recording.NewReaderDevice(input, 4, "audio/webm")})
	})
	defer recorder.Close()

	blob, err := capture(context.Background(), recorder, recording.ComposerPersonal)
	if err != nil {
		testContext.Fatalf("capture failed: %v", err)
	}
	if string(blob.Data) != "recorded-audio" || blob.MIMEType != "audio/webm" {
		testContext.Fatalf("unexpected blob %q %s", blob.Data, blob.MIMEType)
	}
}

func TestPrintBanner(testContext *testing.T) {
	table, err := locale.DefaultTable()
	if err != nil {
		testContext.Fatalf("failed to load translations: %v", err)
	}
	translations := locale.NewTranslationCache(table, nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	banner := billing.SelectBanner(billing.Subscription{Status: billing.StatusActive, CurrentPeriodEnd: now.Add(36 * time.Hour)}, now)
	if err := printBanner(&out, translations, "en", banner); err != nil {
		testContext.Fatalf("print failed: %v", err)
	}
	if out.String() != "payment_due: Your next payment is due in 2 days.\n" {
		testContext.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := printBanner(&out, translations, "en", billing.Banner{Kind: billing.NoBanner}); err != nil {
		testContext.Fatalf("print failed: %v", err)
	}
	if out.String() != "no banner\n" {
		testContext.Fatalf("unexpected output %q", out.String())
	}
}
