package clientstate

import (
	"testing"
)

func TestRegisterStoreStepNavigation(t *testing.T) {
	store, err := NewRegisterStore(nil)
	if err != nil {
		t.Fatalf("NewRegisterStore: %v", err)
	}

	if step := store.State().FormData.CurrentStep; step != 1 {
		t.Fatalf("initial step = %d, want 1", step)
	}

	// PrevStep on the first step stays put.
	if err := store.PrevStep(); err != nil {
		t.Fatalf("PrevStep: %v", err)
	}
	if step := store.State().FormData.CurrentStep; step != 1 {
		t.Fatalf("step = %d, want 1", step)
	}

	if err := store.NextStep(); err != nil {
		t.Fatalf("NextStep: %v", err)
	}
	if step := store.State().FormData.CurrentStep; step != 2 {
		t.Fatalf("step = %d, want 2", step)
	}
	if err := store.PrevStep(); err != nil {
		t.Fatalf("PrevStep: %v", err)
	}
	if step := store.State().FormData.CurrentStep; step != 1 {
		t.Fatalf("step = %d, want 1", step)
	}
}

func TestRegisterStoreFaceImages(t *testing.T) {
	store, err := NewRegisterStore(nil)
	if err != nil {
		t.Fatalf("NewRegisterStore: %v", err)
	}

	for _, img := range []string{"a", "b", "c"} {
		if err := store.AddFaceImage(img); err != nil {
			t.Fatalf("AddFaceImage: %v", err)
		}
	}
	if err := store.RemoveFaceImage(1); err != nil {
		t.Fatalf("RemoveFaceImage: %v", err)
	}
	images := store.State().FormData.FaceImages
	if len(images) != 2 || images[0] != "a" || images[1] != "c" {
		t.Fatalf("images = %v", images)
	}

	// Out of range indices are ignored.
	if err := store.RemoveFaceImage(5); err != nil {
		t.Fatalf("RemoveFaceImage out of range: %v", err)
	}
	if err := store.RemoveFaceImage(-1); err != nil {
		t.Fatalf("RemoveFaceImage negative: %v", err)
	}
	if got := len(store.State().FormData.FaceImages); got != 2 {
		t.Fatalf("images length = %d, want 2", got)
	}
}

func TestRegisterStorePersistsFormDataOnly(t *testing.T) {
	persister := NewMemoryPersister()
	store, err := NewRegisterStore(persister)
	if err != nil {
		t.Fatalf("NewRegisterStore: %v", err)
	}

	available := true
	if err := store.SetFormFields(func(fd *RegisterFormData) {
		fd.Username = "alice"
		fd.ConsentToFaceRecognition = true
	}); err != nil {
		t.Fatalf("SetFormFields: %v", err)
	}
	if err := store.NextStep(); err != nil {
		t.Fatalf("NextStep: %v", err)
	}
	if err := store.SetUsernameCheckStatus(true, &available); err != nil {
		t.Fatalf("SetUsernameCheckStatus: %v", err)
	}

	reloaded, err := NewRegisterStore(persister)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	state := reloaded.State()
	if state.FormData.Username != "alice" || !state.FormData.ConsentToFaceRecognition {
		t.Fatalf("form data = %+v", state.FormData)
	}
	if state.FormData.CurrentStep != 2 {
		t.Fatalf("step = %d, want 2", state.FormData.CurrentStep)
	}
	if state.IsCheckingUsername || state.IsUsernameAvailable != nil {
		t.Fatalf("check status survived reload: %+v", state)
	}
}

func TestRegisterStoreClearResetsAndDeletes(t *testing.T) {
	persister := NewMemoryPersister()
	store, err := NewRegisterStore(persister)
	if err != nil {
		t.Fatalf("NewRegisterStore: %v", err)
	}

	if err := store.AddFaceImage("a"); err != nil {
		t.Fatalf("AddFaceImage: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	state := store.State()
	if len(state.FormData.FaceImages) != 0 || state.FormData.CurrentStep != 1 {
		t.Fatalf("state after clear = %+v", state)
	}
	if _, ok, _ := persister.Load("register-storage"); ok {
		t.Fatal("snapshot still present after clear")
	}
}

func TestFilePersisterRoundTrip(t *testing.T) {
	persister, err := NewFilePersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersister: %v", err)
	}

	if _, ok, err := persister.Load("missing"); err != nil || ok {
		t.Fatalf("load missing: ok=%v err=%v", ok, err)
	}
	if err := persister.Save("store", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, ok, err := persister.Load("store")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"x":1}` {
		t.Fatalf("data = %s", data)
	}
	if err := persister.Delete("store"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := persister.Delete("store"); err != nil {
		t.Fatalf("second Delete must be a no-op: %v", err)
	}
}
