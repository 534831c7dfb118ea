package ui

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// Color palette for the application (single source of truth)
var (
	ColorPrimary   = lipgloss.Color("#2E7D5B") // Forest
	ColorSecondary = lipgloss.Color("#38BDF8") // Sky
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorHighlight = lipgloss.Color("#E9C46A") // Sand

	ColorText     = lipgloss.Color("#F9FAFB")
	ColorTextDim  = lipgloss.Color("#9CA3AF")
	ColorTextMute = lipgloss.Color("#6B7280")
)

// styleWrapper wraps a lipgloss style
type styleWrapper struct {
	style lipgloss.Style
}

// Render renders the string with the style
func (s styleWrapper) Render(str string) string {
	if noColor {
		return str
	}
	return s.style.Render(str)
}

// Bold returns a new style with bold enabled
func (s styleWrapper) Bold(v bool) styleWrapper {
	return styleWrapper{s.style.Bold(v)}
}

// Text styles
var (
	Bold      = styleWrapper{lipgloss.NewStyle().Bold(true)}
	Dim       = styleWrapper{lipgloss.NewStyle().Foreground(ColorTextDim)}
	Muted     = styleWrapper{lipgloss.NewStyle().Foreground(ColorTextMute)}
	Success   = styleWrapper{lipgloss.NewStyle().Foreground(ColorSuccess)}
	Warning   = styleWrapper{lipgloss.NewStyle().Foreground(ColorWarning)}
	Error     = styleWrapper{lipgloss.NewStyle().Foreground(ColorError)}
	Primary   = styleWrapper{lipgloss.NewStyle().Foreground(ColorPrimary)}
	Secondary = styleWrapper{lipgloss.NewStyle().Foreground(ColorSecondary)}
	Highlight = styleWrapper{lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)}
)

// GetCheckMark returns a styled check mark
func GetCheckMark() string { return Success.Render("✓") }

// GetCrossMark returns a styled cross mark
func GetCrossMark() string { return Error.Render("✗") }

// GetWarnMark returns a styled warning mark
func GetWarnMark() string { return Warning.Render("⚠") }

// GetInfoMark returns a styled info mark
func GetInfoMark() string { return Secondary.Render("ℹ") }

// GetBullet returns a styled bullet point
func GetBullet() string { return Muted.Render("•") }

type boxWrapper struct {
	style lipgloss.Style
	plain lipgloss.Style
}

func (b boxWrapper) Render(str string) string {
	if noColor {
		return b.plain.Render(str)
	}
	return b.style.Render(str)
}

func roundedBox(c color.Color) boxWrapper {
	plain := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return boxWrapper{style: plain.BorderForeground(c), plain: plain}
}

// Panels
var (
	Box          = roundedBox(ColorMuted)
	HighlightBox = roundedBox(ColorPrimary)
	SuccessBox   = roundedBox(ColorSuccess)
	ErrorBox     = roundedBox(ColorError)
)

// Headers
var (
	Title         = styleWrapper{lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)}
	Subtitle      = styleWrapper{lipgloss.NewStyle().Foreground(ColorTextDim).Italic(true)}
	SectionHeader = styleWrapper{lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)}
)

// Step status styles
var (
	StepPending  = styleWrapper{lipgloss.NewStyle().Foreground(ColorMuted)}
	StepRunning  = styleWrapper{lipgloss.NewStyle().Foreground(ColorSecondary)}
	StepComplete = styleWrapper{lipgloss.NewStyle().Foreground(ColorSuccess)}
	StepFailed   = styleWrapper{lipgloss.NewStyle().Foreground(ColorError)}
	StepSkipped  = styleWrapper{lipgloss.NewStyle().Foreground(ColorWarning)}
)

// FormatKeyValue formats a key-value pair with styling
func FormatKeyValue(key, value string) string {
	return Dim.Render(key+": ") + value
}

// FormatStatus formats a status message with an appropriate icon
func FormatStatus(status, message string) string {
	return statusIcon(status) + " " + message
}

func statusIcon(status string) string {
	switch status {
	case "success":
		return GetCheckMark()
	case "error":
		return GetCrossMark()
	case "warning":
		return GetWarnMark()
	case "info":
		return GetInfoMark()
	default:
		return Secondary.Render("→")
	}
}

// FormatScore colors a candidate score by confidence band.
func FormatScore(score int) string {
	s := fmt.Sprintf("%3d", score)
	switch {
	case score >= 90:
		return Success.Render(s)
	case score >= 50:
		return Secondary.Render(s)
	case score >= 20:
		return Warning.Render(s)
	default:
		return Muted.Render(s)
	}
}

// FangColorScheme returns a Fang color scheme based on the application's color palette
func FangColorScheme(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           ColorText,
		Title:          ColorPrimary,
		Description:    ColorTextDim,
		Codeblock:      c(lipgloss.Color("#E5E7EB"), lipgloss.Color("#1F2A24")),
		Program:        ColorSecondary,
		DimmedArgument: ColorMuted,
		Comment:        ColorMuted,
		Flag:           ColorSuccess,
		FlagDefault:    ColorTextDim,
		Command:        ColorHighlight,
		QuotedString:   ColorSecondary,
		Argument:       ColorText,
		Help:           ColorTextDim,
		Dash:           ColorMuted,
		ErrorHeader:    [2]color.Color{ColorText, ColorError},
		ErrorDetails:   ColorError,
	}
}

// BannerASCII is printed above the root command's help.
const BannerASCII = `
                   _  _         _
  __ _  ___  ___  | |(_) _ __  | | __
 / _' |/ _ \/ _ \ | || || '_ \ | |/ /
| (_| |  __/ (_) || || || | | ||   <
 \__, |\___|\___/ |_||_||_| |_||_|\_\
 |___/
`

// RenderBanner renders the banner in the primary color.
func RenderBanner() string {
	return Primary.Render(BannerASCII)
}
