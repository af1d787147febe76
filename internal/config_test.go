package internal_test

import (
	"time"

	"github.com/frahmantamala/asset-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = &internal.Config{
			Server: internal.ServerConfig{
				Port:              8080,
				AllowedOrigins:    "http://localhost:5173, *",
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       30 * time.Second,
			},
			Database: internal.DatabaseConfig{Source: "postgres://localhost/assets", MaxOpenConns: 10, MaxIdleConns: 5},
			Uploads:  internal.UploadsConfig{Dir: "./uploads", MaxSizeMB: 10},
			Observability: internal.ObservabilityConfig{
				Logging: internal.LoggingConfig{Level: "info", Format: "json"},
			},
		}
	})

	It("accepts a complete configuration", func() {
		Expect(cfg.Validate()).To(Succeed())
	})

	It("reports every invalid section at once", func() {
		cfg.Server.Port = 0
		cfg.Database.Source = ""
		cfg.Uploads.MaxSizeMB = 0
		cfg.Observability.Logging.Level = "trace"

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("server config: invalid port 0"))
		Expect(err.Error()).To(ContainSubstring("database config: source is required"))
		Expect(err.Error()).To(ContainSubstring("uploads config: max_size_mb must be positive"))
		Expect(err.Error()).To(ContainSubstring(`logging config: invalid level "trace"`))
	})

	It("rejects a read timeout shorter than the header timeout", func() {
		cfg.Server.ReadTimeout = time.Second
		Expect(cfg.Server.Validate()).To(MatchError("read_timeout must be >= read_header_timeout"))
	})

	It("rejects more idle than open connections", func() {
		cfg.Database.MaxIdleConns = 20
		Expect(cfg.Database.Validate()).To(HaveOccurred())
	})

	It("converts the upload limit to bytes", func() {
		Expect(cfg.Uploads.MaxBytes()).To(Equal(int64(10 * 1024 * 1024)))
	})

	Describe("LoadConfigFromEnv", func() {
		It("uses defaults when nothing is set", func() {
			GinkgoT().Setenv("PORT", "")
			GinkgoT().Setenv("UPLOADS_DIR", "")
			c := internal.LoadConfigFromEnv()
			Expect(c.Server.Port).To(Equal(8080))
			Expect(c.Uploads.Dir).To(Equal("./uploads"))
			Expect(c.Cache.TTL).To(Equal(time.Minute))
			Expect(c.Integrity.Interval).To(Equal(15 * time.Minute))
		})

		It("reads overrides and ignores malformed numbers", func() {
			GinkgoT().Setenv("PORT", "not-a-number")
			GinkgoT().Setenv("DATABASE_URL", "postgres://db/assets")
			GinkgoT().Setenv("DASHBOARD_CACHE_TTL", "30s")
			GinkgoT().Setenv("REDIS_ADDR", "localhost:6379")
			c := internal.LoadConfigFromEnv()
			Expect(c.Server.Port).To(Equal(8080))
			Expect(c.Database.Source).To(Equal("postgres://db/assets"))
			Expect(c.Cache.TTL).To(Equal(30 * time.Second))
			Expect(c.Cache.RedisAddr).To(Equal("localhost:6379"))
		})
	})
})
