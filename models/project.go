package models

type Project struct {
	ID                int     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title             string  `json:"title" db:"title" gorm:"not null"`
	FeatureImgURL     string  `json:"feature_img_url" db:"feature_img_url"`
	SummaryShort      string  `json:"summary_short" db:"summary_short" gorm:"type:text"`
	IntroShort        string  `json:"intro_short" db:"intro_short" gorm:"type:text"`
	Impact            string  `json:"impact" db:"impact" gorm:"type:text"`
	OriginalSourceURL string  `json:"original_source_url" db:"original_source_url"`
	SectorID          int     `json:"sector_id" db:"sector_id" gorm:"not null"`
	Sector            *Sector `json:"sector,omitempty" gorm:"foreignKey:SectorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Project) TableName() string { return "projects" }

// ProjectInput carries the editable fields of a Project as submitted by a form.
type ProjectInput struct {
	Title             string `form:"title" validate:"required,max=255"`
	FeatureImgURL     string `form:"feature_img_url" validate:"omitempty,url,max=255"`
	SummaryShort      string `form:"summary_short"`
	IntroShort        string `form:"intro_short"`
	Impact            string `form:"impact"`
	OriginalSourceURL string `form:"original_source_url" validate:"omitempty,url,max=255"`
	SectorID          int    `form:"sector_id" validate:"required,gt=0"`
}

func (in ProjectInput) Project() Project {
	return Project{
		Title:             in.Title,
		FeatureImgURL:     in.FeatureImgURL,
		SummaryShort:      in.SummaryShort,
		IntroShort:        in.IntroShort,
		Impact:            in.Impact,
		OriginalSourceURL: in.OriginalSourceURL,
		SectorID:          in.SectorID,
	}
}
