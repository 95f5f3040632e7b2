//go:build unit

package endpoints

import (
	"context"
	"errors"
	"testing"

	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/pkg/preferences"
)

type fakePreferences struct {
	prefs   preferences.Preferences
	saveErr error
}

func (f *fakePreferences) Preferences() preferences.Preferences { return f.prefs }

func (f *fakePreferences) SetTheme(_ context.Context, theme string) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.prefs.Theme = theme

	return nil
}

func TestGetPreferencesEndpoint(t *testing.T) {
	svc := &fakePreferences{prefs: preferences.Preferences{Theme: preferences.ThemeDark}}
	ep := makeGetPreferencesEndpoint(svc)

	resp, err := ep(context.Background(), nil)
	if err != nil {
		t.Fatalf("endpoint returned error: %v", err)
	}

	got, ok := resp.(preferences.Preferences)
	if !ok || got.Theme != preferences.ThemeDark {
		t.Fatalf("expected dark preferences, got %v", resp)
	}
}

func TestUpdatePreferencesEndpoint(t *testing.T) {
	updateRequest := func(svc *fakePreferences, req interface{}, wantTheme string, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			ep := makeUpdatePreferencesEndpoint(svc)

			resp, err := ep(context.Background(), req)
			if (err != nil) != wantErr {
				t.Fatalf("endpoint error = %v, wantErr %v", err, wantErr)
			}
			if wantErr {
				return
			}

			got, ok := resp.(preferences.Preferences)
			if !ok || got.Theme != wantTheme {
				t.Fatalf("expected theme %q, got %v", wantTheme, resp)
			}
		}
	}

	t.Run("updates_and_returns_preferences", updateRequest(
		&fakePreferences{prefs: preferences.Defaults()},
		&dto.PreferencesRequest{Theme: preferences.ThemeDark},
		preferences.ThemeDark, false))

	t.Run("invalid_request_type", updateRequest(
		&fakePreferences{prefs: preferences.Defaults()},
		"not a request", "", true))

	t.Run("store_failure_propagates", updateRequest(
		&fakePreferences{prefs: preferences.Defaults(), saveErr: errors.New("boom")},
		&dto.PreferencesRequest{Theme: preferences.ThemeDark},
		"", true))
}
