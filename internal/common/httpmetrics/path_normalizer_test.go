package httpmetrics

import "testing"

const sampleID = "3f1c2d4e-5a6b-4c7d-8e9f-0a1b2c3d4e5f"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/api/jobs", "/api/jobs"},
		{"/api/jobs/", "/api/jobs"},
		{"/api/jobs/" + sampleID, "/api/jobs/{jobId}"},
		{"/api/jobs/" + sampleID + "/status", "/api/jobs/{jobId}/status"},
		{"/api/apply/" + sampleID + "/status", "/api/apply/{id}/status"},
		{"/api/apply/users/" + sampleID + "/applications", "/api/apply/users/{userId}/applications"},
		{"/api/admin/users/" + sampleID, "/api/admin/users/{userId}"},
		{"/api/admin/audit-logs/42", "/api/admin/audit-logs/{id}"},
		{"/wp-login.php", "/other"},
		{"/.env", "/other"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
