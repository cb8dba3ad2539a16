// Package sample holds example payloads for the prediction service.
// They are meant to be copied and edited, and back the CLI and the tests.
package sample

import "github.com/kailas-cloud/foldcall/internal/domain/prediction"

// MSASequences are example query sequences for MSA prediction.
func MSASequences() []string {
	return []string{"MNVIDIAIAMAI", "IAMNVIDIAAI"}
}

// MSADatabases are the reference databases searched in the MSA example.
func MSADatabases() []string {
	return []string{
		prediction.DatabaseUniref90,
		prediction.DatabaseMgnify,
		prediction.DatabaseSmallBFD,
	}
}

// MSARequest is the complete MSA example payload.
func MSARequest() prediction.MSARequest {
	return prediction.MSARequest{
		Sequences: MSASequences(),
		Databases: MSADatabases(),
	}
}

// StructureSequence is the single query of the structure example.
const StructureSequence = "STARWARSNVIDIAAAAAA"

// stockholm is a one-row Stockholm alignment of StructureSequence against itself.
const stockholm = "# STOCKHOLM 1.0\n\n" +
	"-151285509650596177 " + StructureSequence + "\n" +
	"#=GC RF             xxxxxxxxxxxxxxxxxxx\n" +
	"//\n"

// StructureSequences are example query sequences for structure prediction.
func StructureSequences() []string {
	return []string{StructureSequence}
}

// StructureAlignments hold one Alignment per structure example sequence.
func StructureAlignments() []prediction.Alignment {
	return []prediction.Alignment{
		prediction.NewAlignment(
			prediction.AlignmentEntry{Database: prediction.DatabaseUniref90, Text: stockholm, Format: prediction.FormatStockholm},
			prediction.AlignmentEntry{Database: prediction.DatabaseSmallBFD, Text: stockholm, Format: prediction.FormatStockholm},
		),
	}
}

// StructureTemplates hold one TemplateSet per structure example sequence.
func StructureTemplates() []prediction.TemplateSet {
	return []prediction.TemplateSet{{
		hit(1, "5X6U_E Ragulator complex protein LAMTOR3, Ragulator; Ragulator complex, scaffold, roadblock, lysosome; 2.4A {Homo sapiens}",
			0.0, "RSNVIDIAAA", "ASNIIDVSAA", 6, 23),
		hit(2, "5X6V_E Ragulator complex protein LAMTOR3, Ragulator; Ragulator Rag GTPase complex, scaffold; 2.02A {Homo sapiens}",
			7.9, "RSNVIDIAAA", "ASNIIDVSAA", 6, 23),
		hit(3, "6EHP_E Ragulator complex protein LAMTOR3, Ragulator; Scaffolding complex, Rag-GTPase, mTOR, Ragulator; 2.3A {Homo sapiens}",
			0.0, "RSNVIDIAAA", "ASNIIDVSAA", 6, 45),
		hit(4, "6EHR_E Ragulator complex protein LAMTOR3, Ragulator; Scaffolding complex, Rag-GTPases, mTOR, Ragulator; 2.898A {Homo sapiens}",
			7.8, "RSNVIDIAAA", "ASNIIDVSAA", 6, 45),
		hit(5, "6CTD_B Large-conductance mechanosensitive channel; Channel Mechanosensitive Mycobacterium tuberculosis, MEMBRANE; 5.8A {Mycobacterium tuberculosis (strain ATCC 25177 / H37Ra)}",
			8.7, "ARSNVIDIAAA", "ARGNIVDLAVA", 5, 29),
		hit(6, "3HZQ_A Large-conductance mechanosensitive channel; intermediate state Mechanosensitive channel osmoregulation; 3.82A {Staphylococcus aureus subsp. aureus MW2}",
			8.6, "ARSNVIDIAAA", "LKGNVLDLAIA", 5, 29),
		hit(7, "6B9X_A Ragulator complex protein LAMTOR1, Ragulator; Ragulator, Lamtor, SIGNALING PROTEIN; 1.42A {Homo sapiens}",
			0.0, "WARSNVIDIAAA", "KTASNIIDVSAA", 4, 59),
		hit(8, "4V7H_BM Ribosome; eukaryotic ribosome, 80S, RACK1 protein; HET: OMC, PSU, 5MU, 1MA, OMG, 5MC, YYG, 7MG, 2MG, H2U, M2G; 8.9A {Thermomyces lanuginosus}",
			9.1, "RWARSNVIDIAAAAA", "GWKAAAAAAAAAAAA", 3, 139),
		hit(9, "6QKP_A Nucleoid-associated protein Lsr2; Tuberculosis, DNA organisation, Transcriptional regulator; NMR {Mycobacterium tuberculosis (strain ATCC 25618 / H37Rv)}",
			9.2, "RWARSNVIDIAA", "EWARRNGHNVST", 3, 22),
		hit(10, "1QGN_F CYSTATHIONINE GAMMA-SYNTHASE; METHIONINE BIOSYNTHESIS, PYRIDOXAL 5'-PHOSPHATE, GAMMA-FAMILY; HET: PLP; 2.9A {Nicotiana tabacum} SCOP: c.67.1.3",
			0.0, "NVIDIAAAAA", "KAVDAAAAAA", 8, 2),
		hit(11, "2OAR_E Large-conductance mechanosensitive channel; stretch activated ion channel mechanosensitive; 3.5A {Mycobacterium tuberculosis H37Ra} SCOP: f.16.1.1",
			8.9, "ARSNVIDIAAA", "ARGNIVDLAVA", 5, 32),
		hit(12, "5XKX_A Flavin-containing monooxygenase; Dimethylsulfoniopropionate (DMSP) lyase, LYASE; 1.5A {Acinetobacter bereziniae NIPH 3}",
			8.0, "ARWARSNVID", "TVWARTTAQD", 2, 356),
	}}
}

// StructureRequest is the complete structure example payload.
func StructureRequest() prediction.StructureRequest {
	return prediction.StructureRequest{
		Sequences:  StructureSequences(),
		Alignments: StructureAlignments(),
		Templates:  StructureTemplates(),
	}
}

// hit builds a gapless template hit whose query and hit positions run
// contiguously from queryStart and hitStart.
func hit(index int, name string, sumProbs float64, query, hitSeq string, queryStart, hitStart int) prediction.TemplateHit {
	return prediction.TemplateHit{
		Index:        index,
		Name:         name,
		AlignedCols:  len(query),
		SumProbs:     sumProbs,
		Query:        query,
		HitSequence:  hitSeq,
		IndicesQuery: span(queryStart, len(query)),
		IndicesHit:   span(hitStart, len(hitSeq)),
	}
}

func span(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}
