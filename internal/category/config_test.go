package category

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LoadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeConfig := func(content string) string {
		path := filepath.Join(dir, "categories.yaml")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	When("the file exists", func() {
		It("should parse the declared categories in order", func() {
			path := writeConfig(`categories:
  - name: Pet Care
    keywords:
      - vet
      - grooming
    merchants:
      - petco
  - name: Conbini
    merchants:
      - 7-eleven
`)
			cfg, err := LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Categories).To(HaveLen(2))
			Expect(cfg.Categories[0]).To(Equal(NamedRule{
				Name:      "Pet Care",
				Keywords:  []string{"vet", "grooming"},
				Merchants: []string{"petco"},
			}))
			Expect(cfg.Categories[1].Name).To(Equal("Conbini"))
			Expect(cfg.Categories[1].Keywords).To(BeEmpty())
		})
	})

	When("the file does not exist", func() {
		It("should return an empty config without error", func() {
			cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Categories).To(BeEmpty())
		})
	})

	When("the file is not valid YAML", func() {
		It("should return an error", func() {
			path := writeConfig("categories: [unclosed")
			_, err := LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("parsing categories file")))
		})
	})

	When("an entry has no name", func() {
		It("should return an error", func() {
			path := writeConfig(`categories:
  - keywords:
      - vet
`)
			_, err := LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("entry without a name")))
		})
	})
})
