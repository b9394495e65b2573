// Package report renders a company's scores and readiness into an xlsx
// workbook for sharing outside the product.
package report

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/completeness"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/compliance"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// Input bundles everything one workbook covers. Company may be nil;
// Score, Readiness and Completeness sheets are skipped when their
// section is nil.
type Input struct {
	Company      *model.CompanyProfile
	Period       string
	Score        *model.ScoreResult
	Readiness    *compliance.ReadinessResult
	Completeness map[model.Pillar]completeness.Result
}

// Write renders the workbook to path.
func Write(path string, in Input) error {
	f := xlsx.NewFile()

	if err := addScoresSheet(f, in); err != nil {
		return err
	}
	if in.Readiness != nil {
		if err := addReadinessSheet(f, in.Readiness); err != nil {
			return err
		}
		if err := addNextStepsSheet(f, in.Readiness); err != nil {
			return err
		}
	}
	if in.Completeness != nil {
		if err := addMissingDataSheet(f, in.Completeness); err != nil {
			return err
		}
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}

func addScoresSheet(f *xlsx.File, in Input) error {
	sheet, err := f.AddSheet("Scores")
	if err != nil {
		return eris.Wrap(err, "report: add scores sheet")
	}

	if in.Company != nil {
		addStringRow(sheet, "Company", in.Company.Name)
		addStringRow(sheet, "Industry", in.Company.Industry)
	}
	addStringRow(sheet, "Period", in.Period)
	sheet.AddRow()

	if in.Score == nil {
		addStringRow(sheet, "Scores", "not computed")
		return nil
	}

	header := sheet.AddRow()
	for _, h := range []string{"Pillar", "Score"} {
		header.AddCell().Value = h
	}
	addScoreRow(sheet, "Environmental", in.Score.Environmental)
	addScoreRow(sheet, "Social", in.Score.Social)
	addScoreRow(sheet, "Governance", in.Score.Governance)
	addScoreRow(sheet, "Overall", in.Score.Overall)

	for _, w := range in.Score.Warnings {
		addStringRow(sheet, "Warning", w)
	}
	return nil
}

func addReadinessSheet(f *xlsx.File, r *compliance.ReadinessResult) error {
	sheet, err := f.AddSheet("Readiness")
	if err != nil {
		return eris.Wrap(err, "report: add readiness sheet")
	}

	addStringRow(sheet, "Overall readiness", fmt.Sprintf("%d%%", r.OverallPercent))
	sheet.AddRow()

	header := sheet.AddRow()
	for _, h := range []string{"Pillar", "Covered", "Total", "Status", "Missing requirements"} {
		header.AddCell().Value = h
	}
	for _, p := range model.Pillars() {
		pr, ok := r.Pillars[p]
		if !ok {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().Value = p.Label()
		row.AddCell().SetInt(pr.Covered)
		row.AddCell().SetInt(pr.Total)
		row.AddCell().Value = string(pr.Status)
		missing := row.AddCell()
		for i, id := range pr.Missing {
			if i > 0 {
				missing.Value += ", "
			}
			missing.Value += id
		}
	}
	return nil
}

func addNextStepsSheet(f *xlsx.File, r *compliance.ReadinessResult) error {
	sheet, err := f.AddSheet("Next Steps")
	if err != nil {
		return eris.Wrap(err, "report: add next steps sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"#", "Pillar", "Category", "Mandatory", "Action"} {
		header.AddCell().Value = h
	}
	for i, s := range r.NextSteps {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().Value = s.Pillar.Label()
		row.AddCell().Value = string(s.Category)
		row.AddCell().SetBool(s.Mandatory)
		row.AddCell().Value = s.Action
	}
	return nil
}

func addMissingDataSheet(f *xlsx.File, byPillar map[model.Pillar]completeness.Result) error {
	sheet, err := f.AddSheet("Missing Data")
	if err != nil {
		return eris.Wrap(err, "report: add missing data sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Pillar", "Completeness", "Field", "Critical"} {
		header.AddCell().Value = h
	}
	for _, p := range model.Pillars() {
		res, ok := byPillar[p]
		if !ok {
			continue
		}
		if len(res.Missing) == 0 {
			row := sheet.AddRow()
			row.AddCell().Value = p.Label()
			row.AddCell().Value = fmt.Sprintf("%d%%", res.Percentage)
			row.AddCell().Value = "complete"
			continue
		}
		for _, spec := range res.Missing {
			row := sheet.AddRow()
			row.AddCell().Value = p.Label()
			row.AddCell().Value = fmt.Sprintf("%d%%", res.Percentage)
			row.AddCell().Value = spec.Label
			row.AddCell().SetBool(spec.Critical)
		}
	}
	return nil
}

func addStringRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().Value = c
	}
}

func addScoreRow(sheet *xlsx.Sheet, label string, score float64) {
	row := sheet.AddRow()
	row.AddCell().Value = label
	row.AddCell().SetFloatWithFormat(score, "0.0")
}
