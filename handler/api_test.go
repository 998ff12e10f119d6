package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedLookups creates one device type and brand through the API and returns
// their ids.
func seedLookups(t *testing.T, env *testEnv) (typeID, brandID float64) {
	t.Helper()

	status, envelope := env.request(t, http.MethodPost, "/api/metadata/types", env.adminToken, fiber.Map{
		"type_name": "Projector",
	})
	require.Equal(t, http.StatusCreated, status)
	typeID = dataMap(t, envelope)["type_id"].(float64)

	status, envelope = env.request(t, http.MethodPost, "/api/metadata/brands", env.adminToken, fiber.Map{
		"brand_name": "Epson",
	})
	require.Equal(t, http.StatusCreated, status)
	brandID = dataMap(t, envelope)["brand_id"].(float64)
	return typeID, brandID
}

func TestDeviceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	typeID, brandID := seedLookups(t, env)

	var deviceID, roomID, installationID float64

	t.Run("create device", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/devices", env.adminToken, fiber.Map{
			"device_unique_id": "PRJ-001",
			"type_id":          typeID,
			"brand_id":         brandID,
			"model":            "EB-2250U",
			"purchase_date":    "2025-06-01",
		})
		require.Equal(t, http.StatusCreated, status)
		deviceID = dataMap(t, envelope)["device_id"].(float64)
	})

	t.Run("duplicate unique id conflicts", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/devices", env.adminToken, fiber.Map{
			"device_unique_id": "PRJ-001",
			"type_id":          typeID,
			"brand_id":         brandID,
		})
		require.Equal(t, http.StatusConflict, status)
		assert.Equal(t, false, envelope["success"])
	})

	t.Run("bad purchase date fails validation", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/devices", env.adminToken, fiber.Map{
			"device_unique_id": "PRJ-002",
			"type_id":          typeID,
			"brand_id":         brandID,
			"purchase_date":    "06/01/2025",
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)
		fields, ok := envelope["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "purchase_date")
	})

	t.Run("viewer can read", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodGet, "/api/devices", env.viewerToken, nil)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, dataList(t, envelope), 1)
	})

	t.Run("install into a room", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/rooms", env.adminToken, fiber.Map{
			"room_number": "B-101",
			"room_name":   "Physics Lab",
		})
		require.Equal(t, http.StatusCreated, status)
		roomID = dataMap(t, envelope)["room_id"].(float64)

		status, envelope = env.request(t, http.MethodPost, "/api/installations", env.adminToken, fiber.Map{
			"device_id":         deviceID,
			"room_id":           roomID,
			"installed_date":    "2026-01-10",
			"installation_type": "NEW_INSTALLATION",
		})
		require.Equal(t, http.StatusCreated, status)
		installationID = dataMap(t, envelope)["installation_id"].(float64)
	})

	t.Run("installed device cannot be deleted", func(t *testing.T) {
		status, _ := env.request(t, http.MethodDelete, "/api/devices/1", env.adminToken, nil)
		require.Equal(t, http.StatusConflict, status)
	})

	t.Run("room holding a device cannot be deleted", func(t *testing.T) {
		status, _ := env.request(t, http.MethodDelete, "/api/rooms/1", env.adminToken, nil)
		require.Equal(t, http.StatusConflict, status)
	})

	t.Run("withdraw then delete", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPut, "/api/installations/1/withdraw", env.adminToken, fiber.Map{
			"withdrawn_date":   "2026-02-01",
			"withdrawal_notes": "lamp failure",
		})
		require.Equal(t, http.StatusOK, status)

		status, _ = env.request(t, http.MethodDelete, "/api/devices/1", env.adminToken, nil)
		require.Equal(t, http.StatusOK, status)
	})

	t.Run("history shows the stay", func(t *testing.T) {
		_ = installationID

		status, envelope := env.request(t, http.MethodGet, "/api/deleted-items", env.adminToken, nil)
		require.Equal(t, http.StatusOK, status)
		data := dataMap(t, envelope)
		require.Len(t, data["devices"], 1)
	})

	t.Run("restore from the recycle bin", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPost, "/api/deleted-items/restore", env.adminToken, fiber.Map{
			"type": "device",
			"id":   deviceID,
		})
		require.Equal(t, http.StatusOK, status)

		status, envelope := env.request(t, http.MethodGet, "/api/devices/1/history", env.viewerToken, nil)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, dataList(t, envelope), 1)
	})
}

func TestMetadataEndpoint(t *testing.T) {
	env := newTestEnv(t)
	seedLookups(t, env)

	status, envelope := env.request(t, http.MethodGet, "/api/metadata", env.viewerToken, nil)
	require.Equal(t, http.StatusOK, status)

	data := dataMap(t, envelope)
	require.Len(t, data["device_types"], 1)
	require.Len(t, data["brands"], 1)
	require.Len(t, data["installation_types"], 3)
}

func TestSupportRecordOwnership(t *testing.T) {
	env := newTestEnv(t)

	status, envelope := env.request(t, http.MethodPost, "/api/support-team", env.adminToken, fiber.Map{
		"member_name": "N. Silva",
		"department":  "AV",
	})
	require.Equal(t, http.StatusCreated, status)
	memberID := dataMap(t, envelope)["member_id"].(float64)

	record := fiber.Map{
		"member_id":           memberID,
		"support_date":        "2026-03-10",
		"support_time":        "09:30",
		"location":            "B-101",
		"support_description": "Projector alignment",
	}

	status, envelope = env.request(t, http.MethodPost, "/api/classroom-support", env.adminToken, record)
	require.Equal(t, http.StatusCreated, status)
	recordID := dataMap(t, envelope)["support_id"].(float64)
	_ = recordID

	t.Run("non-owner cannot edit", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPut, "/api/classroom-support/1", env.viewerToken, record)
		require.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "You can only edit your own records", envelope["message"])
	})

	t.Run("owner can edit", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPut, "/api/classroom-support/1", env.adminToken, record)
		require.Equal(t, http.StatusOK, status)
	})

	t.Run("member with records cannot be removed", func(t *testing.T) {
		status, _ := env.request(t, http.MethodDelete, "/api/support-team/1", env.adminToken, nil)
		require.Equal(t, http.StatusConflict, status)
	})
}

func TestBlogVisibility(t *testing.T) {
	env := newTestEnv(t)

	status, envelope := env.request(t, http.MethodPost, "/api/blog/posts", env.adminToken, fiber.Map{
		"title":   "Lab Upgrade 2026",
		"content": "All projectors replaced.",
		"status":  "published",
	})
	require.Equal(t, http.StatusCreated, status)
	slug := dataMap(t, envelope)["slug"].(string)

	status, _ = env.request(t, http.MethodPost, "/api/blog/posts", env.adminToken, fiber.Map{
		"title":   "Unfinished Notes",
		"content": "Draft body.",
	})
	require.Equal(t, http.StatusCreated, status)

	t.Run("anonymous list only sees published", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodGet, "/api/blog/posts", "", nil)
		require.Equal(t, http.StatusOK, status)

		data := dataMap(t, envelope)
		assert.Equal(t, float64(1), data["total"])
	})

	t.Run("admin can list everything", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodGet, "/api/blog/posts?status=all", env.adminToken, nil)
		require.Equal(t, http.StatusOK, status)

		data := dataMap(t, envelope)
		assert.Equal(t, float64(2), data["total"])
	})

	t.Run("anonymous read by slug", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodGet, "/api/blog/posts/slug/"+slug, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Lab Upgrade 2026", dataMap(t, envelope)["title"])
	})

	t.Run("anonymous cannot read a draft", func(t *testing.T) {
		status, _ := env.request(t, http.MethodGet, "/api/blog/posts/2", "", nil)
		require.Equal(t, http.StatusNotFound, status)
	})

	t.Run("reactions need a login", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPost, "/api/blog/posts/1/reactions", "", fiber.Map{
			"reaction_type": "like",
		})
		require.Equal(t, http.StatusUnauthorized, status)

		status, _ = env.request(t, http.MethodPost, "/api/blog/posts/1/reactions", env.viewerToken, fiber.Map{
			"reaction_type": "like",
		})
		require.Equal(t, http.StatusOK, status)
	})

	t.Run("comment thread", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/blog/posts/1/comments", env.viewerToken, fiber.Map{
			"comment_text": "Will the lab be closed?",
		})
		require.Equal(t, http.StatusCreated, status)
		commentID := dataMap(t, envelope)["comment_id"].(float64)

		status, _ = env.request(t, http.MethodPost, "/api/blog/posts/1/comments", env.adminToken, fiber.Map{
			"comment_text":      "Only until noon.",
			"parent_comment_id": commentID,
		})
		require.Equal(t, http.StatusCreated, status)

		status, envelope = env.request(t, http.MethodGet, "/api/blog/posts/1/comments", "", nil)
		require.Equal(t, http.StatusOK, status)
		threads := dataList(t, envelope)
		require.Len(t, threads, 1)

		root, ok := threads[0].(map[string]any)
		require.True(t, ok)
		require.Len(t, root["replies"], 1)
	})

	t.Run("only the author or an admin deletes a comment", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPost, "/api/blog/posts/1/comments", env.adminToken, fiber.Map{
			"comment_text": "Admin note.",
		})
		require.Equal(t, http.StatusCreated, status)

		status, _ = env.request(t, http.MethodDelete, "/api/blog/comments/3", env.viewerToken, nil)
		require.Equal(t, http.StatusForbidden, status)

		status, _ = env.request(t, http.MethodDelete, "/api/blog/comments/3", env.adminToken, nil)
		require.Equal(t, http.StatusOK, status)
	})
}

func TestGatePassEndpoints(t *testing.T) {
	env := newTestEnv(t)
	typeID, brandID := seedLookups(t, env)

	status, envelope := env.request(t, http.MethodPost, "/api/devices", env.adminToken, fiber.Map{
		"device_unique_id": "PRJ-001",
		"type_id":          typeID,
		"brand_id":         brandID,
	})
	require.Equal(t, http.StatusCreated, status)
	deviceID := dataMap(t, envelope)["device_id"].(float64)

	t.Run("create requires devices", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/gate-passes", env.adminToken, fiber.Map{
			"gate_pass_number": "GP-2026-001",
			"gate_pass_date":   "2026-03-01",
			"consignee_name":   "Central Repair",
			"destination":      "Service Center",
			"carrier_name":     "K. Perera",
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)
		fields, ok := envelope["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "device_ids")
	})

	t.Run("create and fetch", func(t *testing.T) {
		status, _ := env.request(t, http.MethodPost, "/api/gate-passes", env.adminToken, fiber.Map{
			"gate_pass_number": "GP-2026-001",
			"gate_pass_date":   "2026-03-01",
			"consignee_name":   "Central Repair",
			"destination":      "Service Center",
			"carrier_name":     "K. Perera",
			"device_ids":       []float64{deviceID},
		})
		require.Equal(t, http.StatusCreated, status)

		status, envelope := env.request(t, http.MethodGet, "/api/gate-passes/1", env.viewerToken, nil)
		require.Equal(t, http.StatusOK, status)

		data := dataMap(t, envelope)
		assert.Equal(t, "GP-2026-001", data["gate_pass_number"])
		require.Len(t, data["devices"], 1)
	})
}
