package api

import (
	"strings"

	"cryptofactor/internal/domain"
	l2_service "cryptofactor/internal/service/l2"

	"github.com/gin-gonic/gin"
)

type getFactorsResponse struct {
	Factors             []string `json:"factors"`
	ExpressionFunctions []string `json:"expressionFunctions"`
	NumSymbols          int      `json:"numSymbols"`
	FirstDate           string   `json:"firstDate,omitempty"`
	LastDate            string   `json:"lastDate,omitempty"`
}

func (h ApiHandler) factors(c *gin.Context) {
	out := getFactorsResponse{
		Factors:             []string{},
		ExpressionFunctions: l2_service.ExpressionFunctions(),
	}
	for _, f := range domain.AllFactorTypes() {
		out.Factors = append(out.Factors, strings.ToLower(string(f)))
	}

	if h.Index != nil {
		out.NumSymbols = len(h.Index.Symbols())
		if out.NumSymbols > 0 {
			first, last := h.Index.DateRange()
			out.FirstDate = first.Format("2006-01-02")
			out.LastDate = last.Format("2006-01-02")
		}
	}

	c.JSON(200, out)
}
