// Package seed holds the bundled dataset the storage layer falls back to
// when a deployment starts with an empty database.
package seed

import (
	"strconv"

	"github.com/sojokerto/absensi-bot/internal/models"
)

func strptr(s string) *string { return &s }

func Users() []models.User {
	return []models.User{
		{ID: "1", Email: "admin@sekolah.edu", Password: "admin123", Role: models.RoleAdmin, Name: "Administrator"},
		{ID: "2", Email: "budi.santoso@sekolah.edu", Password: "guru123", Role: models.RoleGuru, Name: "Budi Santoso"},
		{ID: "3", Email: "siti.rahma@sekolah.edu", Password: "guru123", Role: models.RoleGuru, Name: "Siti Rahma"},
		{ID: "4", Email: "ahmad.wijaya@sekolah.edu", Password: "guru123", Role: models.RoleGuru, Name: "Ahmad Wijaya"},
	}
}

func Teachers() []models.Teacher {
	return []models.Teacher{
		{ID: "1", NIP: "196801011990031001", Name: "Budi Santoso", Email: "budi.santoso@sekolah.edu", Phone: "081234567890", SubjectLabel: "Guru Kelas 1", UserID: "2", ClassID: strptr("1")},
		{ID: "2", NIP: "197205151995122002", Name: "Siti Rahma", Email: "siti.rahma@sekolah.edu", Phone: "081234567891", SubjectLabel: "Guru Kelas 2", UserID: "3", ClassID: strptr("2")},
		{ID: "3", NIP: "198003201998031003", Name: "Ahmad Wijaya", Email: "ahmad.wijaya@sekolah.edu", Phone: "081234567892", SubjectLabel: "Guru Kelas 3", UserID: "4", ClassID: strptr("3")},
	}
}

func Subjects() []models.Subject {
	return []models.Subject{
		{ID: "1", Code: "MAT", Name: "Matematika", Description: "Mata pelajaran Matematika untuk SD"},
		{ID: "2", Code: "BIN", Name: "Bahasa Indonesia", Description: "Mata pelajaran Bahasa Indonesia untuk SD"},
		{ID: "3", Code: "IPA", Name: "Ilmu Pengetahuan Alam", Description: "Mata pelajaran IPA untuk SD"},
		{ID: "4", Code: "IPS", Name: "Ilmu Pengetahuan Sosial", Description: "Mata pelajaran IPS untuk SD"},
		{ID: "5", Code: "PKN", Name: "Pendidikan Kewarganegaraan", Description: "Mata pelajaran PKN untuk SD"},
		{ID: "6", Code: "SBK", Name: "Seni Budaya dan Kerajinan", Description: "Mata pelajaran SBK untuk SD"},
		{ID: "7", Code: "PJK", Name: "Pendidikan Jasmani dan Kesehatan", Description: "Mata pelajaran Penjas untuk SD"},
		{ID: "8", Code: "PAI", Name: "Pendidikan Agama Islam", Description: "Mata pelajaran Agama Islam untuk SD"},
		{ID: "9", Code: "BIG", Name: "Bahasa Inggris", Description: "Mata pelajaran Bahasa Inggris untuk SD"},
		{ID: "10", Code: "MLK", Name: "Muatan Lokal", Description: "Mata pelajaran Muatan Lokal untuk SD"},
	}
}

func Classes() []models.Class {
	out := make([]models.Class, 0, 6)
	for i := 1; i <= 6; i++ {
		n := strconv.Itoa(i)
		out = append(out, models.Class{
			ID:           n,
			Name:         "Kelas " + n,
			Level:        n,
			AcademicYear: "2024/2025",
		})
	}
	return out
}

func Students() []models.Student {
	return []models.Student{
		{ID: "1", NIS: "2024001", Name: "Ahmad Rizki", ClassID: "1", Gender: "L", Email: "ahmad.rizki@student.edu", Phone: "081234567801"},
		{ID: "2", NIS: "2024002", Name: "Sari Indah", ClassID: "1", Gender: "P", Email: "sari.indah@student.edu", Phone: "081234567802"},
		{ID: "3", NIS: "2024003", Name: "Budi Hartono", ClassID: "2", Gender: "L", Email: "budi.hartono@student.edu", Phone: "081234567803"},
		{ID: "4", NIS: "2024004", Name: "Maya Sari", ClassID: "2", Gender: "P", Email: "maya.sari@student.edu", Phone: "081234567804"},
		{ID: "5", NIS: "2024005", Name: "Dian Pratama", ClassID: "3", Gender: "L", Email: "dian.pratama@student.edu", Phone: "081234567805"},
		{ID: "6", NIS: "2024006", Name: "Rina Wati", ClassID: "3", Gender: "P", Email: "rina.wati@student.edu", Phone: "081234567806"},
		{ID: "7", NIS: "2024007", Name: "Andi Setiawan", ClassID: "4", Gender: "L", Email: "andi.setiawan@student.edu", Phone: "081234567807"},
		{ID: "8", NIS: "2024008", Name: "Dewi Lestari", ClassID: "4", Gender: "P", Email: "dewi.lestari@student.edu", Phone: "081234567808"},
		{ID: "9", NIS: "2024009", Name: "Fajar Ramadhan", ClassID: "5", Gender: "L", Email: "fajar.ramadhan@student.edu", Phone: "081234567809"},
		{ID: "10", NIS: "2024010", Name: "Indira Putri", ClassID: "5", Gender: "P", Email: "indira.putri@student.edu", Phone: "081234567810"},
		{ID: "11", NIS: "2024011", Name: "Galih Pratama", ClassID: "6", Gender: "L", Email: "galih.pratama@student.edu", Phone: "081234567811"},
		{ID: "12", NIS: "2024012", Name: "Hana Safitri", ClassID: "6", Gender: "P", Email: "hana.safitri@student.edu", Phone: "081234567812"},
	}
}
