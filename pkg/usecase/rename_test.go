package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/face-auto-trace/pkg/mmath"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
)

func TestLoadRenameTable_Parse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rename.conf")
	content := "# モーフ名の変換表\n" +
		"まばたき -> ウィンク\n" +
		"  あ->a  \n" +
		"\n" +
		"矢印なしの行\n" +
		"頭 -> 首\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadRenameTable(path)
	if err != nil {
		t.Fatal(err)
	}

	want := RenameTable{
		"まばたき": "ウィンク",
		"あ":    "a",
		"頭":    "首",
	}
	if len(table) != len(want) {
		t.Fatalf("table size = %d, want %d (%v)", len(table), len(want), table)
	}
	for src, dst := range want {
		if table[src] != dst {
			t.Errorf("table[%q] = %q, want %q", src, table[src], dst)
		}
	}
}

func TestLoadRenameTable_MissingFileIsIdentity(t *testing.T) {
	table, err := LoadRenameTable(filepath.Join(t.TempDir(), "no-such-file.conf"))
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 {
		t.Errorf("missing file must yield empty table, got %v", table)
	}

	table, err = LoadRenameTable("")
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 {
		t.Errorf("empty path must yield empty table, got %v", table)
	}
}

func TestRename_AppliesTable(t *testing.T) {
	doc := motion.NewMotionDocument("")
	doc.AppendRotationFrame(BoneHead, &motion.RotationSample{Index: 0, Rotation: mmath.NewMQuaternion()})
	doc.AppendMorphFrame(MorphBlink, &motion.MorphSample{Index: 0, Weight: 0.5})
	doc.AppendMorphFrame(MorphMouthA, &motion.MorphSample{Index: 0, Weight: 0.2})

	Rename(doc, RenameTable{BoneHead: "首", MorphBlink: "ウィンク"})

	if got := doc.RotationChannels[BoneHead].Name; got != "首" {
		t.Errorf("bone channel name = %q, want 首", got)
	}
	if got := doc.MorphChannels[MorphBlink].Name; got != "ウィンク" {
		t.Errorf("morph channel name = %q, want ウィンク", got)
	}
	if got := doc.MorphChannels[MorphMouthA].Name; got != MorphMouthA {
		t.Errorf("unmapped channel must keep its name, got %q", got)
	}
}

func TestRename_IdentityTableIsNoop(t *testing.T) {
	doc := motion.NewMotionDocument("")
	doc.AppendMorphFrame(MorphBlink, &motion.MorphSample{Index: 0, Weight: 0.5})
	doc.AppendMorphFrame(MorphMouthA, &motion.MorphSample{Index: 3, Weight: 0.2})

	Rename(doc, RenameTable{})
	Rename(doc, RenameTable{})

	if got := doc.MorphChannels[MorphBlink].Name; got != MorphBlink {
		t.Errorf("name = %q, want %q", got, MorphBlink)
	}
	if got := doc.MorphChannels[MorphBlink].Get(0).Weight; got != 0.5 {
		t.Errorf("weights must be untouched, got %v", got)
	}
}

func TestRename_CollisionKeepsBothChannels(t *testing.T) {
	doc := motion.NewMotionDocument("")
	doc.AppendMorphFrame(MorphBrowWorry, &motion.MorphSample{Index: 0, Weight: 0.3})
	doc.AppendMorphFrame(MorphBrowSerious, &motion.MorphSample{Index: 0, Weight: 0.7})

	Rename(doc, RenameTable{MorphBrowWorry: "眉", MorphBrowSerious: "眉"})

	// 衝突しても両方のチャンネルは残り、マップキーは元の名前のまま
	if len(doc.MorphChannels) != 2 {
		t.Fatalf("both channels must survive a collision, got %d", len(doc.MorphChannels))
	}
	if got := doc.MorphChannels[MorphBrowWorry].Name; got != "眉" {
		t.Errorf("worry renamed to %q, want 眉", got)
	}
	if got := doc.MorphChannels[MorphBrowSerious].Name; got != "眉" {
		t.Errorf("serious renamed to %q, want 眉", got)
	}
}
