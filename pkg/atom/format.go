package atom

import (
	stringpool "github.com/ajitpratap0/nebula-atom/pkg/strings"
)

const (
	atomTypeOpen = "AtomType (Name = "
	atomOpen     = "ATOM (Index = "
	typeLabel    = ", Type = "
	contentLabel = ", Content = "
	closeParen   = ")"
	nullContent  = "null"
)

func formatAtomType(name string) string {
	return stringpool.Concat(atomTypeOpen, stringpool.Quote(name), closeParen)
}

func formatAtom(a *Atom) string {
	size := stringpool.SizeFor(len(a.content) + 96)
	b := stringpool.GetBuilder(size)
	defer stringpool.PutBuilder(b, size)

	b.WriteString(atomOpen)
	b.WriteInt(a.index)
	b.WriteString(typeLabel)
	b.WriteString(a.typ.String())
	b.WriteString(contentLabel)
	if a.hasContent {
		writeQuoted(b, a.content)
	} else {
		b.WriteString(nullContent)
	}
	b.WriteString(closeParen)

	return stringpool.Clone(b.String())
}

func writeQuoted(b *stringpool.Builder, s string) {
	_ = b.WriteByte('"')
	b.WriteString(s)
	_ = b.WriteByte('"')
}
