package clientstate

import (
	"encoding/json"
	"sync"
)

const registerStoreName = "register-storage"

// RegisterFormData is the registration wizard's form state. Step one holds
// the account fields, step two the face-recognition consent and captures.
type RegisterFormData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`

	ConsentToFaceRecognition bool     `json:"consentToFaceRecognition"`
	FaceImages               []string `json:"faceImages"`

	CurrentStep      int  `json:"currentStep"`
	IsFirstStepValid bool `json:"isFirstStepValid"`
}

// RegisterState adds the transient availability-check flags around the
// persisted form data.
type RegisterState struct {
	FormData RegisterFormData `json:"formData"`

	IsCheckingUsername  bool  `json:"-"`
	IsUsernameAvailable *bool `json:"-"`
	IsCheckingEmail     bool  `json:"-"`
	IsEmailAvailable    *bool `json:"-"`
}

func initialRegisterState() RegisterState {
	return RegisterState{FormData: RegisterFormData{CurrentStep: 1}}
}

type RegisterStore struct {
	mu        sync.Mutex
	state     RegisterState
	persister Persister
}

func NewRegisterStore(persister Persister) (*RegisterStore, error) {
	s := &RegisterStore{state: initialRegisterState(), persister: persister}
	if persister != nil {
		data, ok, err := persister.Load(registerStoreName)
		if err != nil {
			return nil, err
		}
		if ok {
			_ = json.Unmarshal(data, &s.state)
			if s.state.FormData.CurrentStep < 1 {
				s.state.FormData.CurrentStep = 1
			}
		}
	}
	return s, nil
}

func (s *RegisterStore) State() RegisterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *RegisterStore) Apply(update func(*RegisterState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.state)
	return s.persist()
}

func (s *RegisterStore) SetFormFields(update func(*RegisterFormData)) error {
	return s.Apply(func(st *RegisterState) {
		update(&st.FormData)
	})
}

func (s *RegisterStore) NextStep() error {
	return s.Apply(func(st *RegisterState) {
		st.FormData.CurrentStep++
	})
}

// PrevStep never goes below the first step.
func (s *RegisterStore) PrevStep() error {
	return s.Apply(func(st *RegisterState) {
		if st.FormData.CurrentStep > 1 {
			st.FormData.CurrentStep--
		}
	})
}

func (s *RegisterStore) AddFaceImage(image string) error {
	return s.Apply(func(st *RegisterState) {
		st.FormData.FaceImages = append(st.FormData.FaceImages, image)
	})
}

func (s *RegisterStore) RemoveFaceImage(index int) error {
	return s.Apply(func(st *RegisterState) {
		images := st.FormData.FaceImages
		if index < 0 || index >= len(images) {
			return
		}
		st.FormData.FaceImages = append(images[:index], images[index+1:]...)
	})
}

func (s *RegisterStore) SetFirstStepValid(valid bool) error {
	return s.Apply(func(st *RegisterState) {
		st.FormData.IsFirstStepValid = valid
	})
}

func (s *RegisterStore) SetUsernameCheckStatus(checking bool, available *bool) error {
	return s.Apply(func(st *RegisterState) {
		st.IsCheckingUsername = checking
		st.IsUsernameAvailable = available
	})
}

func (s *RegisterStore) SetEmailCheckStatus(checking bool, available *bool) error {
	return s.Apply(func(st *RegisterState) {
		st.IsCheckingEmail = checking
		st.IsEmailAvailable = available
	})
}

func (s *RegisterStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = initialRegisterState()
	if s.persister != nil {
		if err := s.persister.Delete(registerStoreName); err != nil {
			return err
		}
	}
	return nil
}

func (s *RegisterStore) persist() error {
	if s.persister == nil {
		return nil
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	return s.persister.Save(registerStoreName, data)
}
