package services_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/node-inspector/internal/config"
	"github.com/kubev2v/node-inspector/internal/services"
	"github.com/kubev2v/node-inspector/pkg/inspector"
	"github.com/kubev2v/node-inspector/pkg/keystone"
)

var _ = Describe("ClientFactory", func() {
	var (
		ctx      context.Context
		cfg      *config.Configuration
		provider *countingProvider
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = config.NewConfigurationWithOptionsAndDefaults(
			config.WithAuthStrategy(config.AuthStrategyNoAuth),
			config.WithInspectorServiceURL("http://inspector.example.com:5050"),
		)
		provider = &countingProvider{
			delegate: keystone.NewProvider(keystone.Options{
				Catalog: map[string]string{"baremetal-introspection": "http://catalog.example.com:5050"},
			}),
		}
	})

	Describe("GetClient", func() {
		// Given a fresh factory
		// When two clients are requested in a row
		// Then only one session should be built
		It("should reuse the cached session", func() {
			// Arrange
			factory := services.NewClientFactory(cfg, provider)

			// Act
			_, err := factory.GetClient(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = factory.GetClient(ctx)
			Expect(err).NotTo(HaveOccurred())

			// Assert
			Expect(provider.sessionCount()).To(Equal(1))
			Expect(provider.authTypes).To(HaveLen(1))
		})

		// Given a factory with a cached session
		// When it is reset and a client requested again
		// Then exactly one new session should be built
		It("should build a new session after reset", func() {
			factory := services.NewClientFactory(cfg, provider)
			_, err := factory.GetClient(ctx)
			Expect(err).NotTo(HaveOccurred())

			factory.Reset()
			_, err = factory.GetClient(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = factory.GetClient(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(provider.sessionCount()).To(Equal(2))
		})

		// Given many concurrent callers
		// When they all request a client at once
		// Then a single session should be built
		It("should build one session under concurrent callers", func() {
			factory := services.NewClientFactory(cfg, provider)

			var wg sync.WaitGroup
			for range 10 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					_, err := factory.GetClient(ctx)
					Expect(err).NotTo(HaveOccurred())
				}()
			}
			wg.Wait()

			Expect(provider.sessionCount()).To(Equal(1))
		})

		// Given a service URL override
		// When a client is requested
		// Then the override should be handed to the adapter and used verbatim
		It("should use the override verbatim", func() {
			factory := services.NewClientFactory(cfg, provider)

			client, err := factory.GetClient(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(provider.overrides).To(ConsistOf("http://inspector.example.com:5050"))
			ic, ok := client.(*inspector.Client)
			Expect(ok).To(BeTrue())
			Expect(ic.URL()).To(Equal("http://inspector.example.com:5050"))
			Expect(ic.Version()).To(Equal(inspector.APIVersion{Major: 1, Minor: 0}))
		})

		// Given no override
		// When a client is requested
		// Then the endpoint should come from the catalog
		It("should resolve the endpoint from the catalog without override", func() {
			cfg.Inspector.ServiceURL = ""
			factory := services.NewClientFactory(cfg, provider)

			client, err := factory.GetClient(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(client.(*inspector.Client).URL()).To(Equal("http://catalog.example.com:5050"))
		})

		// Given an auth provider which fails
		// When a client is requested twice
		// Then both calls should fail and nothing be cached
		It("should not cache a failed session", func() {
			provider.authErr = errors.New("keystone unreachable")
			factory := services.NewClientFactory(cfg, provider)

			_, err := factory.GetClient(ctx)
			Expect(err).To(MatchError(ContainSubstring("keystone unreachable")))

			provider.authErr = nil
			_, err = factory.GetClient(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.authTypes).To(HaveLen(2))
		})
	})

	Describe("AuthType", func() {
		// Given the noauth strategy and a token auth type
		// When the factory is built
		// Then the auth type should be none and sessions built with it
		It("should force none when running standalone", func() {
			cfg.Inspector.AuthType = config.AuthTypeToken
			factory := services.NewClientFactory(cfg, provider)

			_, err := factory.GetClient(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(factory.AuthType()).To(Equal(config.AuthTypeNone))
			Expect(provider.authTypes).To(ConsistOf(config.AuthTypeNone))
			Expect(cfg.Inspector.AuthType).To(Equal(config.AuthTypeToken))
		})

		// Given the keystone strategy
		// When the factory is built
		// Then the configured auth type should be kept
		It("should keep the configured auth type with keystone", func() {
			cfg.Auth.Strategy = config.AuthStrategyKeystone
			cfg.Inspector.AuthType = config.AuthTypeToken

			factory := services.NewClientFactory(cfg, provider)

			Expect(factory.AuthType()).To(Equal(config.AuthTypeToken))
		})
	})
})
