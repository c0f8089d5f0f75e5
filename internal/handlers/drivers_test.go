package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/node-inspector/api/v1"
	"github.com/kubev2v/node-inspector/internal/handlers"
	"github.com/kubev2v/node-inspector/internal/services"
	"github.com/kubev2v/node-inspector/pkg/errors"
)

var _ = Describe("Driver Handlers", func() {
	var (
		mockDrivers *MockDriverService
		router      *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockDrivers = &MockDriverService{}
		router = gin.New()
		v1.RegisterHandlers(router, handlers.New(&MockNodeService{}, mockDrivers))
	})

	get := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should list drivers with their interfaces", func() {
		mockDrivers.ListResult = []services.DriverInfo{
			{Name: "fake-hardware", Interfaces: []string{"inspect"}},
			{Name: "ipmi", Interfaces: []string{"inspect"}},
		}

		w := get("/drivers")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp v1.DriverList
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Drivers).To(HaveLen(2))
		Expect(resp.Drivers[1].Name).To(Equal("ipmi"))
	})

	It("should return driver properties", func() {
		mockDrivers.PropertiesResult = map[string]string{}

		w := get("/drivers/ipmi/properties")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("{}"))
	})

	It("should return 400 for a driver without inspection", func() {
		mockDrivers.PropertiesError = errors.NewUnsupportedDriverExtensionError("management-only", "inspect")

		w := get("/drivers/management-only/properties")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should report health", func() {
		w := get("/health")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"ok"`))
	})
})
