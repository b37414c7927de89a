// Package doi carries the invention-disclosure (DOI) template contract and
// registers its bindings.
package doi

// Preset is the name the CLI uses to select this contract.
const Preset = "doi-v1"

// Slide inject ids, read from each slide's SLIDE_INFO shape.
const (
	TitleSlide          = "title_slide"
	BasicInfoSlide      = "basic_info_slide"
	BackgroundTechnical = "background_technical_slide"
	BackgroundProblem   = "background_problem_slide"
	BackgroundPriorArt  = "background_prior_art_slide"
	BackgroundPurpose   = "background_purpose_slide"
)

// Shape names.
const (
	TitleShape           = "ELE_TITLE_SHAPE"
	BasicInfoTable       = "ELE_BASICINFO_TABLE"
	ParagraphContentArea = "ELE_PARAGRAPH_CONTENT_AREA"
	ImageContentArea     = "ELE_IMAGE_CONTENT_AREA"
)

// Run samples: marker texts inside the basic info table.
const (
	DepartmentSample     = "ELE_DEPARTMENT_RUN_SAMPLE"
	ProjectNameSample    = "ELE_PROJECTNAME_RUN_SAMPLE"
	InventionTitleSample = "ELE_INVENTION_TITLE_RUN_SAMPLE"
	InventorNameSample   = "ELE_INV_NAME_RUN_SAMPLE"
	ContributionSample   = "ELE_CR_RUN_SAMPLE"
	EmployeeIDSample     = "ELE_EM_ID_RUN_SAMPLE"
	EmployeeStatusSample = "ELE_EM_STAT_RUN_SAMPLE"
)

// Inventor rows are inserted above the template row, which already carries
// the inventor styling.
const (
	InventorInsertIndex   = 5
	InventorTemplateIndex = 5
)

// EmptyCell fills the unused column of an inventor row.
const EmptyCell = "empty_cell"

// Section ids and the slides they fill.
const (
	SectionTechnicalField = "technical_field"
	SectionProblem        = "problem"
	SectionPriorArt       = "prior_art"
	SectionPurpose        = "purpose"
)

// SectionSlides maps a section id to its slide, in slide order.
var SectionSlides = []struct {
	Section string
	Slide   string
}{
	{SectionTechnicalField, BackgroundTechnical},
	{SectionProblem, BackgroundProblem},
	{SectionPriorArt, BackgroundPriorArt},
	{SectionPurpose, BackgroundPurpose},
}
