// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"deck-stats-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// remoteUser matches the JSON shape of the auth service's profile feed.
type remoteUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userChangesResponse struct {
	Users []remoteUser `json:"users"`
}

// UserSyncWorker keeps the local MirroredUser table in step with the auth
// service so the dashboard can render author and member display names
// without a per-request upstream call.
type UserSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewUserSyncWorker(db *gorm.DB, authServiceBaseURL, endpointPath, serviceToken string) *UserSyncWorker {
	return &UserSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      authServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *UserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting User Sync Worker (auth-service → mirrored_users)…")
	go w.run(ctx)
}

func (w *UserSyncWorker) run(ctx context.Context) {
	// Initial full sync, then incremental polls from the last seen update.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial user sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ User sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ User Sync Worker stopped")
			return
		}
	}
}

func (w *UserSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM mirrored_users").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

func (w *UserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid auth service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to auth service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("auth service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response userChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode auth service response: %w", err)
	}

	if len(response.Users) == 0 {
		return nil
	}

	var upsertCount, errorCount int
	for _, u := range response.Users {
		mirror := models.MirroredUser{
			UserID:    u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role,
			UpdatedAt: u.UpdatedAt,
		}
		if err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "role", "updated_at"}),
		}).Create(&mirror).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert mirrored_user (id=%q, username=%q): %v",
				u.ID, u.Username, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d users (%d upserted, %d errors) since %s",
		len(response.Users), upsertCount, errorCount, sinceStr)
	return nil
}
