package pptx

import (
	"encoding/xml"
)

// The types below mirror the subset of PresentationML and DrawingML the
// reader understands. Element names match by local name, so the p: and a:
// prefixes need not be spelled out.

type xSlide struct {
	CSld struct {
		SpTree xSpTree `xml:"spTree"`
	} `xml:"cSld"`
}

// xSpTree keeps the shape tree children in document order.
type xSpTree struct {
	Items []xTreeItem
}

type xTreeItem struct {
	Kind  string // sp, pic, graphicFrame, cxnSp, grpSp, contentPart
	Sp    *xSp
	Pic   *xPic
	Frame *xGraphicFrame
	Cxn   *xCxnSp
	Grp   *xGrpSp
}

func (t *xSpTree) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			item := xTreeItem{Kind: el.Name.Local}
			var target any
			switch el.Name.Local {
			case "sp":
				item.Sp = &xSp{}
				target = item.Sp
			case "pic":
				item.Pic = &xPic{}
				target = item.Pic
			case "graphicFrame":
				item.Frame = &xGraphicFrame{}
				target = item.Frame
			case "cxnSp":
				item.Cxn = &xCxnSp{}
				target = item.Cxn
			case "grpSp":
				item.Grp = &xGrpSp{}
				target = item.Grp
			}
			if target == nil {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := d.DecodeElement(target, &el); err != nil {
				return err
			}
			t.Items = append(t.Items, item)
		case xml.EndElement:
			return nil
		}
	}
}

type xCNvPr struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Descr  string `xml:"descr,attr"`
	Hidden bool   `xml:"hidden,attr"`
}

type xSp struct {
	NvSpPr struct {
		CNvPr   xCNvPr `xml:"cNvPr"`
		CNvSpPr struct {
			TxBox bool `xml:"txBox,attr"`
		} `xml:"cNvSpPr"`
		NvPr struct {
			Ph *struct {
				Type string `xml:"type,attr"`
				Idx  string `xml:"idx,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	SpPr   xSpPr    `xml:"spPr"`
	TxBody *xTxBody `xml:"txBody"`
}

type xPic struct {
	NvPicPr struct {
		CNvPr xCNvPr `xml:"cNvPr"`
	} `xml:"nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr xSpPr `xml:"spPr"`
}

type xCxnSp struct {
	NvCxnSpPr struct {
		CNvPr xCNvPr `xml:"cNvPr"`
	} `xml:"nvCxnSpPr"`
	SpPr xSpPr `xml:"spPr"`
}

type xGrpSp struct {
	NvGrpSpPr struct {
		CNvPr xCNvPr `xml:"cNvPr"`
	} `xml:"nvGrpSpPr"`
}

type xGraphicFrame struct {
	NvGraphicFramePr struct {
		CNvPr xCNvPr `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm    xXfrm `xml:"xfrm"`
	Graphic struct {
		GraphicData struct {
			URI string `xml:"uri,attr"`
			Tbl *xTbl  `xml:"tbl"`
		} `xml:"graphicData"`
	} `xml:"graphic"`
}

type xXfrm struct {
	Off struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
	Ext struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"ext"`
}

// xFill is the fill choice shared by spPr, tcPr and line properties.
type xFill struct {
	NoFill    *struct{} `xml:"noFill"`
	SolidFill *xColor   `xml:"solidFill"`
	GradFill  *struct{} `xml:"gradFill"`
	BlipFill  *struct{} `xml:"blipFill"`
	PattFill  *struct{} `xml:"pattFill"`
	GrpFill   *struct{} `xml:"grpFill"`
}

func (f xFill) explicit() bool {
	return f.NoFill != nil || f.SolidFill != nil || f.GradFill != nil || f.BlipFill != nil || f.PattFill != nil || f.GrpFill != nil
}

type xSpPr struct {
	Xfrm *xXfrm `xml:"xfrm"`
	xFill
	Ln *xLine `xml:"ln"`
}

type xColor struct {
	SrgbClr *struct {
		Val string `xml:"val,attr"`
	} `xml:"srgbClr"`
	SchemeClr *struct {
		Val string `xml:"val,attr"`
	} `xml:"schemeClr"`
	SysClr *struct {
		Val     string `xml:"val,attr"`
		LastClr string `xml:"lastClr,attr"`
	} `xml:"sysClr"`
	PrstClr *struct {
		Val string `xml:"val,attr"`
	} `xml:"prstClr"`
}

type xLine struct {
	W    string `xml:"w,attr"`
	Cap  string `xml:"cap,attr"`
	Cmpd string `xml:"cmpd,attr"`
	xFill
	PrstDash *struct {
		Val string `xml:"val,attr"`
	} `xml:"prstDash"`
}

type xTxBody struct {
	BodyPr struct {
		Wrap        string    `xml:"wrap,attr"`
		Anchor      string    `xml:"anchor,attr"`
		LIns        string    `xml:"lIns,attr"`
		RIns        string    `xml:"rIns,attr"`
		TIns        string    `xml:"tIns,attr"`
		BIns        string    `xml:"bIns,attr"`
		NormAutofit *struct{} `xml:"normAutofit"`
		SpAutoFit   *struct{} `xml:"spAutoFit"`
	} `xml:"bodyPr"`
	Ps []xP `xml:"p"`
}

// xP keeps runs, line breaks and fields in document order.
type xP struct {
	PPr        *xPPr
	Content    []xRun
	EndParaRPr *xRPr
}

// xRun is a run, a field (Field set) or a line break (Break set).
type xRun struct {
	RPr   *xRPr  `xml:"rPr"`
	T     string `xml:"t"`
	Field bool   `xml:"-"`
	Break bool   `xml:"-"`
}

func (p *xP) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr":
				p.PPr = &xPPr{}
				err = d.DecodeElement(p.PPr, &el)
			case "r", "fld":
				var r xRun
				err = d.DecodeElement(&r, &el)
				r.Field = el.Name.Local == "fld"
				p.Content = append(p.Content, r)
			case "br":
				var r xRun
				err = d.DecodeElement(&r, &el)
				r.Break = true
				p.Content = append(p.Content, r)
			case "endParaRPr":
				p.EndParaRPr = &xRPr{}
				err = d.DecodeElement(p.EndParaRPr, &el)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xPPr struct {
	Algn   string `xml:"algn,attr"`
	Lvl    string `xml:"lvl,attr"`
	MarL   string `xml:"marL,attr"`
	Indent string `xml:"indent,attr"`
	LnSpc  *struct {
		SpcPct *struct {
			Val string `xml:"val,attr"`
		} `xml:"spcPct"`
	} `xml:"lnSpc"`
	BuNone *struct{} `xml:"buNone"`
	BuChar *struct {
		Char string `xml:"char,attr"`
	} `xml:"buChar"`
	BuAutoNum *struct {
		Type    string `xml:"type,attr"`
		StartAt string `xml:"startAt,attr"`
	} `xml:"buAutoNum"`
	DefRPr *xRPr `xml:"defRPr"`
}

type xRPr struct {
	Sz string `xml:"sz,attr"`
	B  string `xml:"b,attr"`
	I  string `xml:"i,attr"`
	xFill
	Latin *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"latin"`
	Ea *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"ea"`
}

type xTbl struct {
	TblGrid struct {
		GridCols []struct {
			W int64 `xml:"w,attr"`
		} `xml:"gridCol"`
	} `xml:"tblGrid"`
	Trs []xTr `xml:"tr"`
}

type xTr struct {
	H   int64 `xml:"h,attr"`
	Tcs []xTc `xml:"tc"`
}

type xTc struct {
	GridSpan int      `xml:"gridSpan,attr"`
	RowSpan  int      `xml:"rowSpan,attr"`
	HMerge   bool     `xml:"hMerge,attr"`
	VMerge   bool     `xml:"vMerge,attr"`
	TxBody   *xTxBody `xml:"txBody"`
	TcPr     *xTcPr   `xml:"tcPr"`
}

type xTcPr struct {
	MarL     string `xml:"marL,attr"`
	MarR     string `xml:"marR,attr"`
	MarT     string `xml:"marT,attr"`
	MarB     string `xml:"marB,attr"`
	Anchor   string `xml:"anchor,attr"`
	LnL      *xLine `xml:"lnL"`
	LnR      *xLine `xml:"lnR"`
	LnT      *xLine `xml:"lnT"`
	LnB      *xLine `xml:"lnB"`
	LnTlToBr *xLine `xml:"lnTlToBr"`
	LnBlToTr *xLine `xml:"lnBlToTr"`
	xFill
}
