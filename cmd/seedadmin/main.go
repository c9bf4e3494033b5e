// cmd/seedadmin/main.go — Crea el usuario admin de demo, las mesas del salón
// y un menú de arranque. Idempotente: se puede correr sobre una base ya poblada.
// Uso: go run cmd/seedadmin/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"taqueriapos/internal/infra"
	"taqueriapos/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "taqueria.db"
	}

	db, err := infra.NewDatabase(path)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	seedAdmin(db)
	seedMesas(db)
	seedMenu(db)
}

func seedAdmin(db *gorm.DB) {
	username := "admin"
	password := "1234"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	var existing model.Usuario
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		existing.PasswordHash = string(hash)
		existing.Activo = true
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("update admin error: %v", err)
		}
		fmt.Printf("✅ Usuario '%s' actualizado con password '%s'\n", username, password)
		return
	}

	admin := model.Usuario{
		Username:     username,
		Nombre:       "Admin Demo",
		PasswordHash: string(hash),
		Rol:          model.RolAdmin,
		Activo:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("insert admin error: %v", err)
	}
	fmt.Printf("✅ Usuario '%s' creado con password '%s'\n", username, password)
}

func seedMesas(db *gorm.DB) {
	terraza := "terraza"
	salon := "salon"
	mesas := []model.Mesa{
		{Numero: 1, Capacidad: 4, Estado: model.MesaDisponible, Ubicacion: &salon},
		{Numero: 2, Capacidad: 4, Estado: model.MesaDisponible, Ubicacion: &salon},
		{Numero: 3, Capacidad: 2, Estado: model.MesaDisponible, Ubicacion: &salon},
		{Numero: 4, Capacidad: 6, Estado: model.MesaDisponible, Ubicacion: &terraza},
		{Numero: 5, Capacidad: 8, Estado: model.MesaDisponible, Ubicacion: &terraza},
	}
	creadas := 0
	for _, m := range mesas {
		var count int64
		db.Model(&model.Mesa{}).Where("numero = ?", m.Numero).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&m).Error; err != nil {
			log.Fatalf("insert mesa %d error: %v", m.Numero, err)
		}
		creadas++
	}
	fmt.Printf("✅ %d mesas creadas\n", creadas)
}

func seedMenu(db *gorm.DB) {
	precio := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	min := func(n int) *int { return &n }

	productos := []model.Producto{
		{Nombre: "Taco de pastor", Precio: precio("18.00"), Categoria: "tacos", TiempoPreparacion: min(5), Disponible: true, Stock: 120, StockMinimo: 20},
		{Nombre: "Taco de suadero", Precio: precio("20.00"), Categoria: "tacos", TiempoPreparacion: min(5), Disponible: true, Stock: 100, StockMinimo: 20},
		{Nombre: "Taco de bistec", Precio: precio("22.00"), Categoria: "tacos", TiempoPreparacion: min(6), Disponible: true, Stock: 100, StockMinimo: 20},
		{Nombre: "Quesadilla", Precio: precio("35.00"), Categoria: "antojitos", TiempoPreparacion: min(8), Disponible: true, Stock: 60, StockMinimo: 10},
		{Nombre: "Gringa", Precio: precio("45.00"), Categoria: "antojitos", TiempoPreparacion: min(8), Disponible: true, Stock: 40, StockMinimo: 10},
		{Nombre: "Agua de horchata", Precio: precio("25.00"), Categoria: "bebidas", Disponible: true, Stock: 50, StockMinimo: 10},
		{Nombre: "Agua de jamaica", Precio: precio("25.00"), Categoria: "bebidas", Disponible: true, Stock: 50, StockMinimo: 10},
		{Nombre: "Refresco", Precio: precio("30.00"), Categoria: "bebidas", Disponible: true, Stock: 80, StockMinimo: 15},
	}
	creados := 0
	for _, p := range productos {
		var count int64
		db.Model(&model.Producto{}).Where("nombre = ?", p.Nombre).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("insert producto %q error: %v", p.Nombre, err)
		}
		creados++
	}
	fmt.Printf("✅ %d productos creados\n", creados)
}
