package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wellpath-backend-V2.0/internal/flow"
)

// CatalogController exposes the loaded questionnaire template so clients can
// render section lists before a session starts.
type CatalogController struct {
	Catalog *flow.Catalog
}

func NewCatalogController(catalog *flow.Catalog) *CatalogController {
	return &CatalogController{Catalog: catalog}
}

func (cc *CatalogController) GetTemplates(c *gin.Context) {
	domains := make([]gin.H, 0, len(cc.Catalog.Domains))
	for _, d := range cc.Catalog.Domains {
		questions := make([]gin.H, 0, len(d.Questions))
		for _, q := range d.Questions {
			entry := gin.H{
				"id":       q.ID,
				"prompt":   q.Prompt,
				"type":     q.Type,
				"required": q.Required,
			}
			if len(q.Options) > 0 {
				entry["options"] = q.Options
			}
			if q.Instrument != "" {
				entry["instrument"] = q.Instrument
			}
			questions = append(questions, entry)
		}
		domains = append(domains, gin.H{
			"id":        d.ID,
			"title":     d.Title,
			"questions": questions,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"name":    cc.Catalog.Name,
		"domains": domains,
	})
}
