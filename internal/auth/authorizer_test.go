package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Authorizer", func() {
	var (
		authorizer *Authorizer
		nextCalled bool
		next       http.Handler
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ginkgo.BeforeEach(func() {
		authorizer = NewAuthorizer(testLogger)
		nextCalled = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		})
	})

	requestAs := func(u *User) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		if u != nil {
			req = req.WithContext(ContextWithUser(req.Context(), u))
		}
		return req
	}

	ginkgo.Describe("Require", func() {
		ginkgo.It("should reject requests without an actor with 401", func() {
			rec := httptest.NewRecorder()

			authorizer.Require(ActionView, ResourceEmployee)(next).ServeHTTP(rec, requestAs(nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Unauthorized"))
			gomega.Expect(nextCalled).To(gomega.BeFalse())
		})

		ginkgo.It("should reject an insufficient role with 403 and the required role list", func() {
			rec := httptest.NewRecorder()
			actor := &User{ID: "u-1", Role: RoleSuperUser}

			authorizer.Require(ActionDelete, ResourceEmployee)(next).ServeHTTP(rec, requestAs(actor))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Access Denied: Required role(s): admin"))
			gomega.Expect(nextCalled).To(gomega.BeFalse())
		})

		ginkgo.It("should pass a permitted role through to the handler", func() {
			rec := httptest.NewRecorder()
			actor := &User{ID: "u-2", Role: RoleAdmin}

			authorizer.Require(ActionDelete, ResourceEmployee)(next).ServeHTTP(rec, requestAs(actor))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(nextCalled).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RequireRole", func() {
		ginkgo.It("should list every accepted role in the denial message", func() {
			rec := httptest.NewRecorder()
			actor := &User{ID: "u-1", Role: RoleUser}

			authorizer.RequireRole(RoleSuperUser, RoleAdmin)(next).ServeHTTP(rec, requestAs(actor))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Access Denied: Required role(s): super_user, admin"))
		})

		ginkgo.It("should allow any role in the set", func() {
			rec := httptest.NewRecorder()
			actor := &User{ID: "u-1", Role: RoleSuperUser}

			authorizer.RequireRole(RoleSuperUser, RoleAdmin)(next).ServeHTTP(rec, requestAs(actor))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(nextCalled).To(gomega.BeTrue())
		})
	})
})
