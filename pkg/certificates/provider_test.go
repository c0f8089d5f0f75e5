package certificates_test

import (
	"crypto/x509"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/node-inspector/pkg/certificates"
)

var _ = Describe("Certification Provider", func() {
	Context("self signed certificate", func() {
		It("generates successfully", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(10 * time.Second))
			Expect(err).To(BeNil())
			Expect(key).ToNot(BeNil())

			data := x509.MarshalPKCS1PrivateKey(key)
			Expect(data).NotTo(BeEmpty())

			Expect(cert.Issuer.Organization).Should(ContainElement("KubeV2V"))
			Expect(cert.Subject.OrganizationalUnit).Should(ContainElement("Node Inspector"))
		})

		// Given a certificate with a future expiry
		// When we check the certificate validity
		// Then NotBefore should be before NotAfter
		It("has correct validity period", func() {
			expiry := time.Now().Add(24 * time.Hour)
			cert, _, err := certificates.GenerateSelfSignedCertificate(expiry)
			Expect(err).To(BeNil())

			Expect(cert.NotBefore).To(BeTemporally("<", cert.NotAfter))
			Expect(cert.NotAfter).To(BeTemporally("~", expiry, time.Second))
		})

		// Given extra hosts
		// When the certificate is generated
		// Then names and addresses are split into their SAN fields
		It("adds hosts as subject alternative names", func() {
			cert, _, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour), "inspector.local", "10.0.0.5", "")
			Expect(err).To(BeNil())

			Expect(cert.DNSNames).To(ConsistOf("localhost", "inspector.local"))
			Expect(cert.IPAddresses).To(ContainElement(BeEquivalentTo(net.ParseIP("10.0.0.5").To4())))
			Expect(cert.VerifyHostname("127.0.0.1")).To(Succeed())
		})

		It("supports server and client authentication", func() {
			cert, _, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(cert.ExtKeyUsage).To(ContainElement(x509.ExtKeyUsageServerAuth))
			Expect(cert.ExtKeyUsage).To(ContainElement(x509.ExtKeyUsageClientAuth))
			Expect(cert.IsCA).To(BeTrue())
		})

		It("generates a 4096-bit RSA key", func() {
			_, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(key.N.BitLen()).To(Equal(4096))
		})
	})

	Context("tls config", func() {
		It("wraps the key pair", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			tlsConfig, err := certificates.NewTLSConfig(cert, key)
			Expect(err).To(BeNil())
			Expect(tlsConfig.Certificates).To(HaveLen(1))
			Expect(tlsConfig.MinVersion).To(BeNumerically(">=", 0x0303))
		})
	})
})
