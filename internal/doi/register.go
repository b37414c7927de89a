package doi

import (
	"github.com/roboco-io/pptxinject/internal/inject"
)

// Register adds the preset bindings to reg in slide order. Background
// sections absent from d are skipped.
func Register(reg *inject.Registry, d *Data) error {
	static := func(v any) inject.Source { return inject.Static(inject.NewValue(v)) }

	bindings := []inject.Binding{
		{Name: "title", Injector: inject.NewShapeText(TitleSlide, TitleShape), Source: static(d.Title)},
		{Name: "department", Injector: inject.NewTableCell(BasicInfoSlide, BasicInfoTable, DepartmentSample), Source: static(d.Department)},
		{Name: "project_name", Injector: inject.NewTableCell(BasicInfoSlide, BasicInfoTable, ProjectNameSample), Source: static(d.ProjectName)},
		{Name: "invention_title", Injector: inject.NewTableCell(BasicInfoSlide, BasicInfoTable, InventionTitleSample), Source: static(d.InventionTitle)},
	}

	rows := make([][]string, 0, len(d.Inventors))
	for _, inv := range d.Inventors {
		rows = append(rows, inv.Row())
	}
	bindings = append(bindings, inject.Binding{
		Name:     "inventors",
		Injector: inject.NewTableRows(BasicInfoSlide, BasicInfoTable),
		Source: inject.Static(inject.NewValue(rows).
			WithMeta(inject.MetaInsertIndex, InventorInsertIndex).
			WithMeta(inject.MetaTemplateRowIndex, InventorTemplateIndex)),
	})

	for _, ss := range SectionSlides {
		s, ok := d.Section(ss.Section)
		if !ok {
			continue
		}
		bindings = append(bindings, inject.Binding{
			Name:     ss.Section,
			Injector: inject.NewParagraphList(ss.Slide, ParagraphContentArea),
			Source:   static(s.Blocks),
		})
		if p := s.ImagePath(); p != "" {
			bindings = append(bindings, inject.Binding{
				Name:     ss.Section + "_image",
				Injector: inject.NewShapeImage(ss.Slide, ImageContentArea),
				Source:   static(p),
			})
		}
	}

	for _, b := range bindings {
		if err := reg.Register(b); err != nil {
			return err
		}
	}
	return nil
}
