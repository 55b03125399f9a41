package auth

import (
	"fmt"

	"go-blog-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// EditorRole is the role allowed to manage posts and categories.
const EditorRole = "editor"

// editorPolicies grant the editor role every admin route.
var editorPolicies = [][]string{
	{EditorRole, "/admin/posts", "GET"},
	{EditorRole, "/admin/posts", "POST"},
	{EditorRole, "/admin/posts/:id", "GET"},
	{EditorRole, "/admin/posts/:id", "PUT"},
	{EditorRole, "/admin/posts/:id", "DELETE"},
	{EditorRole, "/admin/posts/:id/publish", "POST"},
	{EditorRole, "/admin/posts/:id/unpublish", "POST"},
	{EditorRole, "/admin/categories", "POST"},
	{EditorRole, "/admin/categories/:id", "DELETE"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules
// and that every configured editor subject holds the editor role.
// It checks if each policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, editors []string, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range editorPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	for _, subject := range editors {
		if has, _ := e.HasRoleForUser(subject, EditorRole); !has {
			if _, err := e.AddRoleForUser(subject, EditorRole); err != nil {
				log.Error(err, fmt.Sprintf("Failed to grant role '%s' to %s", EditorRole, subject))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
