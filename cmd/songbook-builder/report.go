package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/provide-io/songbook/go/songbook/pkg/songbook/build"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/palette"
)

type orderReport struct {
	Songs      []reportSong     `yaml:"songs"`
	Categories []reportCategory `yaml:"categories,omitempty"`
	Palette    reportPalette    `yaml:"palette"`
	Authors    string           `yaml:"authors"`
}

type reportSong struct {
	Number int    `yaml:"number"`
	Title  string `yaml:"title"`
	Source string `yaml:"source"`
	Forced bool   `yaml:"forced,omitempty"`
}

type reportCategory struct {
	Tag   string `yaml:"tag"`
	Songs []int  `yaml:"songs"`
}

type reportColor struct {
	RGB string `yaml:"rgb"`
	Hex string `yaml:"hex"`
}

type reportPalette struct {
	Logo  reportColor `yaml:"logo"`
	Title reportColor `yaml:"title"`
	Cover reportColor `yaml:"cover"`
	Back  reportColor `yaml:"back"`
}

func color(c palette.RGB) reportColor {
	return reportColor{RGB: c.String(), Hex: c.Hex()}
}

func newOrderReport(plan *build.Plan) orderReport {
	r := orderReport{
		Songs:   make([]reportSong, len(plan.Songs)),
		Authors: plan.Authors,
		Palette: reportPalette{
			Logo:  color(plan.Palette.Logo),
			Title: color(plan.Palette.Title),
			Cover: color(plan.Palette.Cover),
			Back:  color(plan.Palette.Back),
		},
	}
	number := make(map[string]int, len(plan.Songs))
	for i, s := range plan.Songs {
		r.Songs[i] = reportSong{Number: i + 1, Title: s.Title, Source: s.Source, Forced: s.HasPosition()}
		number[s.Source] = i + 1
	}
	if plan.Categories != nil {
		for _, tag := range plan.Categories.Tags() {
			c := reportCategory{Tag: tag}
			for _, s := range plan.Categories.Get(tag) {
				c.Songs = append(c.Songs, number[s.Source])
			}
			r.Categories = append(r.Categories, c)
		}
	}
	return r
}

func writeReport(w io.Writer, r orderReport, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		for _, s := range r.Songs {
			mark := ""
			if s.Forced {
				mark = " *"
			}
			if _, err := fmt.Fprintf(w, "%3d  %s%s\n", s.Number, s.Title, mark); err != nil {
				return err
			}
		}
		for _, c := range r.Categories {
			fmt.Fprintf(w, "\n[%s] %v\n", c.Tag, c.Songs)
		}
		fmt.Fprintf(w, "\nlogo  %s  %s\n", r.Palette.Logo.RGB, r.Palette.Logo.Hex)
		fmt.Fprintf(w, "title %s  %s\n", r.Palette.Title.RGB, r.Palette.Title.Hex)
		fmt.Fprintf(w, "cover %s  %s\n", r.Palette.Cover.RGB, r.Palette.Cover.Hex)
		fmt.Fprintf(w, "back  %s  %s\n", r.Palette.Back.RGB, r.Palette.Back.Hex)
		_, err := fmt.Fprintf(w, "authors %s\n", r.Authors)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
}
