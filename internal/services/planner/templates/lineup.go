// Package templates renders planner HTML views.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/lineup"
)

// LineupPage renders the full lineup board document.
func LineupPage(view lineup.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Lineup"
		if view.ModeName != "" {
			title = view.ModeName + " lineup"
		}
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+`</title></head><body>`); err != nil {
			return err
		}
		if err := LineupBoard(view).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// LineupBoard renders the board fragment without the document shell.
func LineupBoard(view lineup.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="lineup" data-mode="` + templ.EscapeString(view.ModeID) + `">`)
		if view.ModeID == "" {
			b.WriteString(`<p class="lineup-empty">Pick a mode to start planning.</p></main>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<h1>` + templ.EscapeString(view.ModeName) + `</h1>`)
		if len(view.Elements) > 0 {
			b.WriteString(`<p class="elements">` + templ.EscapeString(strings.Join(view.Elements, " / ")) + `</p>`)
		}
		writeCharacters(&b, "Opening", view.Opening, view.MaxEnergy)
		writeCharacters(&b, "Roster", view.Roster, view.MaxEnergy)
		b.WriteString(`<div class="chambers">`)
		writeColumn(&b, "left", view.Left)
		writeColumn(&b, "right", view.Right)
		b.WriteString(`</div>`)
		if len(view.Arcana) > 0 {
			writeColumn(&b, "arcana", view.Arcana)
		}
		b.WriteString(`</main>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeCharacters(b *strings.Builder, heading string, characters []lineup.CharacterView, maxEnergy int) {
	if len(characters) == 0 {
		return
	}
	b.WriteString(`<section class="characters"><h2>` + templ.EscapeString(heading) + `</h2><ul>`)
	for _, c := range characters {
		fmt.Fprintf(b, `<li data-character="%s" data-energy="%d">%s <span class="energy">%d/%d</span></li>`,
			templ.EscapeString(c.ID), c.Energy, templ.EscapeString(c.Name), c.Energy, maxEnergy)
	}
	b.WriteString(`</ul></section>`)
}

func writeColumn(b *strings.Builder, name string, chambers []lineup.ChamberView) {
	b.WriteString(`<section class="column column-` + name + `">`)
	for _, chamber := range chambers {
		fmt.Fprintf(b, `<article class="chamber" data-act="%s"><h3>%s</h3>`,
			templ.EscapeString(chamber.Act.ID), templ.EscapeString(chamberTitle(chamber.Act)))
		if chamber.Label != "" {
			b.WriteString(`<p class="variation">` + templ.EscapeString(chamber.Label) + `</p>`)
		}
		if len(chamber.Enemies) > 0 {
			active := chamber.ActiveEnemy
			if active >= len(chamber.Enemies) {
				active = 0
			}
			b.WriteString(`<p class="enemy">` + templ.EscapeString(chamber.Enemies[active].Name) + `</p>`)
		}
		b.WriteString(`<ul class="placed">`)
		for _, c := range chamber.Placed {
			b.WriteString(`<li>` + templ.EscapeString(c.Name) + `</li>`)
		}
		b.WriteString(`</ul></article>`)
	}
	b.WriteString(`</section>`)
}

func chamberTitle(act catalog.Act) string {
	switch act.Type {
	case catalog.FightArcana:
		return fmt.Sprintf("Arcana %d", act.Ordinal)
	case catalog.FightBoss:
		return fmt.Sprintf("Act %d (Boss)", act.Ordinal)
	default:
		return fmt.Sprintf("Act %d", act.Ordinal)
	}
}
