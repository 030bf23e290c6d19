package rest_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("OpenAPI contract", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should document every route the router serves", func() {
		expected := []string{
			"/auth/login",
			"/auth/signup",
			"/auth/first-user",
			"/auth/refresh",
			"/auth/logout",
			"/auth/session",
			"/employees",
			"/employees/{id}",
			"/users",
			"/users/me",
			"/users/{id}",
			"/users/{id}/ban",
			"/users/{id}/unban",
			"/users/{id}/reset-password",
			"/audit-logs",
			"/audit-logs/export",
			"/health",
			"/ping",
		}

		for _, path := range expected {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("should declare bearer auth for protected resources", func() {
		Expect(doc.Components.SecuritySchemes).To(HaveKey("bearerAuth"))

		employees := doc.Paths.Find("/employees")
		Expect(employees).NotTo(BeNil())
		Expect(employees.Get.Security).NotTo(BeNil())
	})
})
